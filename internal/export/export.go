// Package export serializes a batch of structured records for hand-off.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spigell/resume-extractor/internal/document"
	"github.com/spigell/resume-extractor/internal/pipeline"
	"github.com/spigell/resume-extractor/internal/record"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
	FormatXLSX Format = "xlsx"
)

var Formats = []Format{FormatJSON, FormatText, FormatXLSX}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatText, FormatXLSX:
		return f, nil
	case "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want json, text or xlsx)", s)
	}
}

// Extension is the file extension commonly used for the format.
func (f Format) Extension() string {
	if f == FormatText {
		return ".txt"
	}
	return "." + string(f)
}

// Item is one exported entry. Failed files keep their reason instead of a record.
type Item struct {
	File   document.Identity `json:"file"`
	Status string            `json:"status"`
	Record *record.Record    `json:"record,omitempty"`
	Error  string            `json:"error,omitempty"`
}

func ItemsFrom(outcomes []pipeline.Outcome) []Item {
	items := make([]Item, 0, len(outcomes))
	for _, o := range outcomes {
		items = append(items, Item{
			File:   o.File,
			Status: string(o.Status),
			Record: o.Record,
			Error:  o.Reason,
		})
	}
	return items
}

// JSON writes items as an array indented with two spaces.
func JSON(w io.Writer, items []Item) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encode json export: %w", err)
	}
	return nil
}

// Text writes a flat report with one block per file.
func Text(w io.Writer, items []Item) error {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "== %s ==\n", item.File.Name)

		if item.Record == nil {
			fmt.Fprintf(&b, "Status: %s\n", item.Status)
			fmt.Fprintf(&b, "Error: %s\n", item.Error)
			continue
		}

		rec := item.Record
		fmt.Fprintf(&b, "Name: %s\n", rec.Name)
		fmt.Fprintf(&b, "Email: %s\n", orNone(rec.Contact.Email))
		fmt.Fprintf(&b, "Phone: %s\n", orNone(rec.Contact.Phone))
		fmt.Fprintf(&b, "Skills: %s\n", orNone(strings.Join(rec.Skills, ", ")))
		writeList(&b, "Education", rec.Education)
		writeList(&b, "Projects", rec.Projects)
		writeList(&b, "Experience", rec.Experience)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(b, "%s: (none)\n", title)
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "  - %s\n", item)
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// Write serializes items in the given format.
func Write(w io.Writer, format Format, items []Item) error {
	switch format {
	case FormatJSON:
		return JSON(w, items)
	case FormatText:
		return Text(w, items)
	case FormatXLSX:
		data, err := XLSX(items)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

func WriteFile(path string, format Format, items []Item) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	if err := Write(f, format, items); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
