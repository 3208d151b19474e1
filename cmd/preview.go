package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-extractor/internal/pipeline"
	"github.com/spigell/resume-extractor/internal/preview"
)

var (
	selectFile = func(items []string) (int, error) {
		filePrompt := promptui.Select{
			Label: "Choose a file and press ENTER",
			Items: items,
		}
		idx, _, err := filePrompt.Run()
		return idx, err
	}

	waitForEnter = func() error {
		wait := promptui.Prompt{Label: "Press ENTER when done"}
		_, err := wait.Run()
		return err
	}
)

var previewCmd = &cobra.Command{
	Use:   "preview [files...]",
	Short: "Show what a resume file looks like before extraction",
	Args:  cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger, config := bootstrap()

		if err := runPreview(ctx, config, args, logger); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreview(ctx context.Context, config *Config, paths []string, logger *zap.Logger) error {
	// Previews never reach the structurer.
	local := *config
	local.Structurer = StructurerLocal

	session, err := newSession(ctx, &local, logger)
	if err != nil {
		return fmt.Errorf("preparing the preview: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("releasing preview", zap.Error(err))
		}
	}()

	files := loadFiles(paths)
	session.Add(files...)

	if len(files) == 1 {
		err = showPreview(ctx, session, files[0].ID)
	} else {
		err = previewLoop(ctx, session, logger)
	}

	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return nil
	}
	return err
}

// previewLoop lets the user pick files one after another. Each pick replaces
// the previous preview.
func previewLoop(ctx context.Context, session *pipeline.Session, logger *zap.Logger) error {
	for {
		files := session.Files()

		items := make([]string, 0, len(files)+1)
		for i, f := range files {
			items = append(items, fmt.Sprintf("%d %s (%s)", i+1, f.Name, f.Kind()))
		}

		idx, err := selectFile(append(items, PromptBack))
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(files) {
			return nil
		}

		f := files[idx]
		if err := showPreview(ctx, session, f.ID); err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return err
			}
			logger.Warn("rendering preview", zap.String("file", f.Name), zap.Error(err))
		}
	}
}

func showPreview(ctx context.Context, session *pipeline.Session, fileID string) error {
	view, err := session.Preview(ctx, fileID)
	if err != nil {
		return err
	}

	printView(view)

	if view.Binary() {
		// The copy lives until the next preview or exit.
		return waitForEnter()
	}

	return nil
}

func printView(view *preview.View) {
	fmt.Printf("== %s (%s) ==\n", view.Name, view.Kind)
	if view.Binary() {
		fmt.Printf("open %s to view the original document\n", view.Path)
		return
	}
	fmt.Println(strings.TrimRight(view.Text, "\n"))
}
