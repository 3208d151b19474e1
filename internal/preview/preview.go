// Package preview renders candidate files for human inspection. It is a side
// channel: nothing here feeds the structured pipeline.
package preview

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spigell/resume-extractor/internal/document"
	"github.com/spigell/resume-extractor/internal/textextract"
)

// View is renderable content for one file. Text views carry decoded text;
// binary views point at a transient copy of the original bytes that must be
// released.
type View struct {
	FileID string
	Name   string
	Kind   document.Kind
	Text   string
	Path   string

	released bool
	remove   func(string) error
}

// Binary reports whether the view embeds the original bytes instead of text.
func (v *View) Binary() bool { return v.Path != "" }

// Release frees the transient copy behind a binary view. Calling it more than
// once is a no-op.
func (v *View) Release() error {
	if v == nil || v.released {
		return nil
	}
	v.released = true

	if v.Path == "" {
		return nil
	}
	if err := v.remove(v.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("release preview of %s: %w", v.Name, err)
	}
	return nil
}

func (v *View) Released() bool { return v.released }

type Renderer struct {
	extractors *textextract.Registry
	dir        string
}

// NewRenderer writes binary views under dir, or the system temp dir when empty.
func NewRenderer(extractors *textextract.Registry, dir string) *Renderer {
	return &Renderer{extractors: extractors, dir: dir}
}

// Render dispatches on the file kind: plain text is shown as decoded, PDFs
// get a transient binary view and DOCX files are shown as extracted text.
func (r *Renderer) Render(ctx context.Context, f *document.File) (*View, error) {
	view := &View{FileID: f.ID, Name: f.Name, Kind: f.Kind(), remove: os.Remove}

	if view.Kind != document.KindUnknown {
		if err := f.Load(); err != nil {
			return nil, err
		}
	}

	switch view.Kind {
	case document.KindPDF:
		path, err := r.writeTemp(f)
		if err != nil {
			return nil, err
		}
		view.Path = path
	case document.KindDOCX, document.KindText:
		text, err := r.extractors.Extract(ctx, f)
		if err != nil {
			return nil, err
		}
		view.Text = text
	default:
		return nil, &document.ValidationError{Reason: document.ReasonUnsupportedType, MediaType: f.MediaType, Size: f.Size}
	}

	return view, nil
}

func (r *Renderer) writeTemp(f *document.File) (string, error) {
	tmp, err := os.CreateTemp(r.dir, "resume-preview-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create preview file: %w", err)
	}

	if _, err := tmp.Write(f.Data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write preview file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close preview file: %w", err)
	}

	return tmp.Name(), nil
}
