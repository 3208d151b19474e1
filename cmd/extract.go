package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-extractor/internal/export"
	"github.com/spigell/resume-extractor/internal/pipeline"
)

const (
	PromptExportJSON = "Export JSON"
	PromptExportText = "Export text report"
	PromptExportXLSX = "Export XLSX"
	PromptReport     = "Show report"
	PromptPreview    = "Preview a file"
	PromptExit       = "Exit"
	PromptBack       = "back"
)

var errExit = errors.New("exit requested")

var actionPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptExportJSON, PromptExportText, PromptExportXLSX, PromptReport, PromptPreview, PromptExit},
}

// selectAction is swapped in tests, promptui needs a terminal.
var selectAction = func() (string, error) {
	_, action, err := actionPrompt.Run()
	return action, err
}

var extractCmd = &cobra.Command{
	Use:   "extract [files...]",
	Short: "Extract structured records from resume files",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger, config := bootstrap()
		yes, _ := cmd.Flags().GetBool("yes")

		// extract returns instead of exiting so the preview is always released.
		if err := extract(ctx, config, args, yes, logger); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().BoolP("yes", "y", false, "do not ask what to do with the results, just print the report")
	extractCmd.Flags().StringP("format", "f", "", "export format: json, text or xlsx")
	extractCmd.Flags().StringP("output", "o", "", "export destination. Default is stdout.")

	viper.BindPFlag("export.format", extractCmd.Flags().Lookup("format"))
	viper.BindPFlag("export.output", extractCmd.Flags().Lookup("output"))
}

func extract(ctx context.Context, config *Config, paths []string, yes bool, logger *zap.Logger) error {
	session, err := newSession(ctx, config, logger, pipeline.WithProgress(progressPrinter(logger)))
	if err != nil {
		return fmt.Errorf("preparing the pipeline with %q structurer: %w", config.Structurer, err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("releasing preview", zap.Error(err))
		}
	}()

	session.Add(loadFiles(paths)...)

	outcomes, err := session.Run(ctx)
	if err != nil {
		logger.Error("batch interrupted", zap.Error(err), zap.Int("processed", len(outcomes)), zap.Int("files", len(paths)))
	}

	if handled, err := deliver(ctx, config.Export, yes, outcomes, os.Stdout, logger); handled {
		return err
	}

	return interact(ctx, session, logger)
}

// deliver handles the non-interactive endings. An interrupted batch is only
// reported, never exported.
func deliver(ctx context.Context, cfg *ExportConfig, yes bool, outcomes []pipeline.Outcome, out io.Writer, logger *zap.Logger) (bool, error) {
	if ctx.Err() != nil {
		if cfg.Format != "" {
			logger.Warn("skipping export of an interrupted batch", zap.String("format", cfg.Format), zap.String("output", cfg.Output))
		}
		return true, export.Text(out, export.ItemsFrom(outcomes))
	}

	if cfg.Format != "" {
		return true, exportTo(cfg.Format, cfg.Output, outcomes, out, logger)
	}

	if yes {
		return true, export.Text(out, export.ItemsFrom(outcomes))
	}

	return false, nil
}

func interact(ctx context.Context, session *pipeline.Session, logger *zap.Logger) error {
	for {
		action, err := selectAction()
		if err == nil {
			err = handleAction(ctx, action, session, logger)
		}

		switch {
		case err == nil:
		case errors.Is(err, errExit):
			return nil
		case errors.Is(err, promptui.ErrInterrupt), errors.Is(err, promptui.ErrEOF):
			logger.Info("exiting", zap.String("reason", "prompt interrupted"))
			return nil
		default:
			return err
		}
	}
}

func handleAction(ctx context.Context, action string, session *pipeline.Session, logger *zap.Logger) error {
	outcomes := session.Outcomes()

	switch action {
	case PromptExportJSON:
		return exportPrompted(export.FormatJSON, outcomes, logger)
	case PromptExportText:
		return exportPrompted(export.FormatText, outcomes, logger)
	case PromptExportXLSX:
		return exportPrompted(export.FormatXLSX, outcomes, logger)
	case PromptReport:
		return export.Text(os.Stdout, export.ItemsFrom(outcomes))
	case PromptPreview:
		return previewLoop(ctx, session, logger)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func progressPrinter(logger *zap.Logger) pipeline.Progress {
	return func(index, total int, o pipeline.Outcome) {
		fields := []zap.Field{
			zap.String("file", o.File.Name),
			zap.String("status", string(o.Status)),
			zap.String("progress", fmt.Sprintf("%d/%d", index+1, total)),
		}
		if !o.OK() {
			fields = append(fields, zap.String("stage", string(o.Stage)), zap.String("reason", o.Reason))
			logger.Warn("file not structured", fields...)
			return
		}
		logger.Info("file structured", fields...)
	}
}

func exportPrompted(format export.Format, outcomes []pipeline.Outcome, logger *zap.Logger) error {
	p := promptui.Prompt{
		Label:   "Save to",
		Default: "resumes" + format.Extension(),
	}

	path, err := p.Run()
	if err != nil {
		return err
	}

	return exportTo(string(format), path, outcomes, os.Stdout, logger)
}

// exportTo writes outcomes to path, or to out when path is empty or "-".
func exportTo(rawFormat, path string, outcomes []pipeline.Outcome, out io.Writer, logger *zap.Logger) error {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return err
	}

	items := export.ItemsFrom(outcomes)

	path = strings.TrimSpace(path)
	if path == "" || path == "-" {
		return export.Write(out, format, items)
	}

	if err := export.WriteFile(filepath.Clean(path), format, items); err != nil {
		return err
	}

	logger.Info("exported results", zap.String("filename", path), zap.String("format", string(format)), zap.Int("count", len(items)))
	return nil
}
