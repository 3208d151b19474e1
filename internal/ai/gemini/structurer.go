package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/resume-extractor/internal/ai"
	"github.com/spigell/resume-extractor/internal/logger"
	"github.com/spigell/resume-extractor/internal/record"
	"github.com/spigell/resume-extractor/internal/utils"
)

const (
	Provider            = "gemini"
	defaultMaxLogLength = 200
)

//go:embed prompt.md
var systemPrompt string

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// Structurer asks Gemini to structure resume text.
type Structurer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewStructurer(generator contentGenerator, log *zap.Logger, maxLogLength int) *Structurer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Structurer{
		generator: generator,
		logger:    logger.WithCommonFields(log, Provider, generator.Model()),
		maxLogLen: maxLogLength,
	}
}

func (s *Structurer) Name() string { return Provider }

func (s *Structurer) Structure(ctx context.Context, in ai.Input) (*record.Record, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, errors.New("resume text is empty")
	}

	message := buildMessage(text)

	var fileFields []zap.Field
	if in.File != nil {
		fileFields = logger.FileFields(in.File.Name, in.File.MediaType)
	}
	log := logger.WithFields(s.logger, fileFields...)

	log.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(message)),
		zap.String("prompt_preview", utils.TruncateForLog(message, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, systemPrompt, message)
	if err != nil {
		return nil, err
	}

	log.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, s.maxLogLen)),
	)

	rec, err := record.ParsePayload([]byte(extractJSON(raw)))
	if err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	return rec, nil
}

func buildMessage(text string) string {
	return "Resume Text:\n\"\"\"" + text + "\"\"\""
}

// extractJSON strips markdown fences and any prose around the outermost object.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")

	start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}")
	if start != -1 && end > start {
		raw = raw[start : end+1]
	}

	return strings.TrimSpace(raw)
}
