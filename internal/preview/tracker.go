package preview

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/resume-extractor/internal/document"
)

// Tracker keeps at most one live view and releases it when it is replaced,
// when its file is removed, or on Close.
type Tracker struct {
	renderer *Renderer
	current  *View
	logger   *zap.Logger
}

func NewTracker(renderer *Renderer, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{renderer: renderer, logger: logger}
}

// Show releases the current view and renders f in its place.
func (t *Tracker) Show(ctx context.Context, f *document.File) (*View, error) {
	if err := t.release(); err != nil {
		return nil, err
	}

	view, err := t.renderer.Render(ctx, f)
	if err != nil {
		return nil, err
	}

	t.current = view
	t.logger.Debug("preview rendered",
		zap.String("file", f.Name),
		zap.String("kind", view.Kind.String()),
		zap.Bool("binary", view.Binary()),
	)

	return view, nil
}

// Current returns the live view, if any.
func (t *Tracker) Current() *View { return t.current }

// Remove releases the view of the given file if it is the live one.
func (t *Tracker) Remove(fileID string) error {
	if t.current == nil || t.current.FileID != fileID {
		return nil
	}
	return t.release()
}

func (t *Tracker) Close() error {
	return t.release()
}

func (t *Tracker) release() error {
	if t.current == nil {
		return nil
	}

	view := t.current
	t.current = nil

	err := view.Release()
	if err != nil {
		t.logger.Warn("preview release failed", zap.String("file", view.Name), zap.Error(err))
	}

	return err
}
