package textextract

import (
	"context"
	"fmt"

	"github.com/spigell/resume-extractor/internal/document"
)

// Extractor turns the bytes of one document into linear text.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// ExtractionError means a parser could not produce text. It is never an empty string.
type ExtractionError struct {
	Kind document.Kind
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s text: %v", e.Kind, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Registry holds exactly one extractor per document kind.
type Registry struct {
	PDF  Extractor
	DOCX Extractor
	Text Extractor
}

func NewRegistry() *Registry {
	return &Registry{
		PDF:  NewPDF(),
		DOCX: NewDOCX(),
		Text: NewPlainText(),
	}
}

// For returns the extractor for kind.
func (r *Registry) For(kind document.Kind) (Extractor, error) {
	switch kind {
	case document.KindPDF:
		return r.PDF, nil
	case document.KindDOCX:
		return r.DOCX, nil
	case document.KindText:
		return r.Text, nil
	case document.KindUnknown:
		return nil, fmt.Errorf("no extractor for kind %s", kind)
	}

	return nil, fmt.Errorf("no extractor for kind %d", int(kind))
}

// Extract dispatches on the declared media type of f.
func (r *Registry) Extract(ctx context.Context, f *document.File) (string, error) {
	kind := f.Kind()

	extractor, err := r.For(kind)
	if err != nil {
		return "", &ExtractionError{Kind: kind, Err: err}
	}

	text, err := extractor.Extract(ctx, f.Data)
	if err != nil {
		return "", &ExtractionError{Kind: kind, Err: err}
	}

	return text, nil
}
