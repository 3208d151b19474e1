package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	stdlog "log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-extractor/internal/ai"
	"github.com/spigell/resume-extractor/internal/ai/gemini"
	"github.com/spigell/resume-extractor/internal/ai/remote"
	"github.com/spigell/resume-extractor/internal/document"
	"github.com/spigell/resume-extractor/internal/logger"
	"github.com/spigell/resume-extractor/internal/pipeline"
	"github.com/spigell/resume-extractor/internal/preview"
	"github.com/spigell/resume-extractor/internal/secrets"
	"github.com/spigell/resume-extractor/internal/textextract"
)

// newStructurer builds the configured structurer. There is no fallback: a
// remote structurer that cannot be built is an error, not a silent switch to
// local heuristics.
func newStructurer(ctx context.Context, cfg *Config, logger *zap.Logger) (ai.Structurer, error) {
	switch name := strings.ToLower(strings.TrimSpace(cfg.Structurer)); name {
	case "", StructurerLocal:
		return ai.Local{}, nil
	case StructurerRemote:
		return newRemoteStructurer(cfg.Remote, logger)
	case StructurerGemini:
		return newGeminiStructurer(ctx, cfg.AI.Gemini, logger)
	default:
		return nil, fmt.Errorf("unsupported structurer: %s", cfg.Structurer)
	}
}

func newRemoteStructurer(cfg *RemoteConfig, logger *zap.Logger) (ai.Structurer, error) {
	token, err := secrets.Optional(secrets.Source{
		Name:  "structuring service token",
		File:  cfg.TokenFile,
		Value: cfg.Token,
	})
	if err != nil {
		return nil, err
	}

	client, err := remote.New(cfg.URL, logger, remote.WithToken(token), remote.WithTimeout(cfg.Timeout))
	if err != nil {
		return nil, fmt.Errorf("%w (set remote.url)", err)
	}

	return client, nil
}

func newGeminiStructurer(ctx context.Context, cfg *GeminiConfig, logger *zap.Logger) (ai.Structurer, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	genLogger := logger.With(zap.Int("ai_retry_attempts", cfg.MaxRetries))

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Model, cfg.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewStructurer(generator, logger, cfg.MaxLogLength), nil
}

func newRunner(ctx context.Context, cfg *Config, logger *zap.Logger, opts ...pipeline.Option) (*pipeline.Runner, error) {
	structurer, err := newStructurer(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	opts = append([]pipeline.Option{pipeline.WithMinTextLength(cfg.MinTextLength)}, opts...)

	return pipeline.NewRunner(pipeline.Deps{
		Validator:  document.NewValidator(cfg.MaxFileSize),
		Extractor:  textextract.NewRegistry(),
		Structurer: structurer,
		Logger:     logger,
	}, opts...)
}

// loadFiles only stats the paths. Oversized and unreadable files become
// per-file outcomes of the batch instead of stopping it.
func loadFiles(paths []string) []*document.File {
	files := make([]*document.File, 0, len(paths))
	for _, path := range paths {
		files = append(files, document.FromPath(path))
	}
	return files
}

// bootstrap creates the logger and loads the config. Failures are fatal.
func bootstrap() (*zap.Logger, *Config) {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		stdlog.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	log.Info("starting the resume-extractor", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	log.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return log, config
}

func newSession(ctx context.Context, cfg *Config, log *zap.Logger, opts ...pipeline.Option) (*pipeline.Session, error) {
	runner, err := newRunner(ctx, cfg, log, opts...)
	if err != nil {
		return nil, err
	}

	previews := preview.NewTracker(preview.NewRenderer(textextract.NewRegistry(), ""), log)

	return pipeline.NewSession(runner, previews), nil
}
