package textextract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pageSource is the part of a parsed PDF the extractor needs. Pages are 1-based.
type pageSource interface {
	NumPage() int
	PageTokens(n int) ([]string, error)
}

type pdfExtractor struct {
	open func(data []byte) (pageSource, error)
}

func NewPDF() Extractor {
	return &pdfExtractor{open: openPDF}
}

// Extract joins the text tokens of every page with single spaces and ends each
// page with a newline. Pages are visited in ascending order. Layout is not
// reconstructed, so multi-column pages interleave.
func (e *pdfExtractor) Extract(ctx context.Context, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	doc, err := e.open(data)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for n := 1; n <= doc.NumPage(); n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		tokens, err := doc.PageTokens(n)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", n, err)
		}

		b.WriteString(strings.Join(tokens, " "))
		b.WriteString("\n")
	}

	return b.String(), nil
}

type ledongthucSource struct {
	reader *pdf.Reader
}

func openPDF(data []byte) (pageSource, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	return &ledongthucSource{reader: reader}, nil
}

func (s *ledongthucSource) NumPage() int {
	return s.reader.NumPage()
}

func (s *ledongthucSource) PageTokens(n int) ([]string, error) {
	page := s.reader.Page(n)
	if page.V.IsNull() {
		return nil, nil
	}

	rows, err := page.GetTextByRow()
	if err != nil {
		return nil, err
	}

	var tokens []string
	for _, row := range rows {
		for _, word := range row.Content {
			if word.S == "" {
				continue
			}
			tokens = append(tokens, word.S)
		}
	}

	return tokens, nil
}
