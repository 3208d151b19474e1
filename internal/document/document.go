package document

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeText = "text/plain"

	octetStream = "application/octet-stream"
)

// Kind is the closed set of document formats the pipeline understands.
type Kind int

const (
	KindUnknown Kind = iota
	KindPDF
	KindDOCX
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindPDF:
		return "pdf"
	case KindDOCX:
		return "docx"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

var extensions = map[string]string{
	".pdf":  MediaTypePDF,
	".docx": MediaTypeDOCX,
	".txt":  MediaTypeText,
}

// KindOf maps a declared media type to its Kind. Parameters such as charset are ignored.
func KindOf(mediaType string) (Kind, bool) {
	base := strings.TrimSpace(mediaType)
	if parsed, _, err := mime.ParseMediaType(base); err == nil {
		base = parsed
	}

	switch strings.ToLower(base) {
	case MediaTypePDF:
		return KindPDF, true
	case MediaTypeDOCX:
		return KindDOCX, true
	case MediaTypeText:
		return KindText, true
	default:
		return KindUnknown, false
	}
}

// File is a candidate document. Files opened from a path carry only metadata
// until Load reads the payload; nothing else changes after construction.
type File struct {
	ID        string
	Name      string
	MediaType string
	Size      int64
	Data      []byte

	path    string
	openErr error
}

// Identity is the part of a File that is reported back with outcomes.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func New(name, mediaType string, data []byte) *File {
	return &File{
		ID:        uuid.NewString(),
		Name:      name,
		MediaType: strings.TrimSpace(mediaType),
		Size:      int64(len(data)),
		Data:      data,
	}
}

// FromBytes declares the media type from the file extension and falls back to
// content sniffing when the extension is not one of the supported ones.
func FromBytes(name string, data []byte) *File {
	return New(name, DeclaredType(name, data), data)
}

// FromPath describes the file at path from its metadata only. The payload is
// read by Load, so an oversized or unreadable file costs nothing until it
// passes validation. A stat failure is kept and reported by Load.
func FromPath(path string) *File {
	f := &File{ID: uuid.NewString(), Name: filepath.Base(path), path: path}

	info, err := os.Stat(path)
	switch {
	case err != nil:
		f.openErr = fmt.Errorf("reading %q: %w", path, err)
	case info.IsDir():
		f.openErr = fmt.Errorf("reading %q: is a directory", path)
	default:
		f.Size = info.Size()
	}

	f.MediaType = declaredTypeOf(path, f.openErr == nil)

	return f
}

// declaredTypeOf sniffs only the file header when the extension says nothing.
func declaredTypeOf(path string, readable bool) string {
	if mediaType, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return mediaType
	}
	if !readable {
		return octetStream
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return octetStream
	}
	return mt.String()
}

// Load reads the payload of a file opened with FromPath. It is a no-op for
// files built from bytes and for files already loaded.
func (f *File) Load() error {
	if f.openErr != nil {
		return f.openErr
	}
	if f.Data != nil || f.path == "" {
		return nil
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("reading %q: %w", f.path, err)
	}

	f.Data = data
	f.Size = int64(len(data))
	return nil
}

func DeclaredType(name string, data []byte) string {
	if mediaType, ok := extensions[strings.ToLower(filepath.Ext(name))]; ok {
		return mediaType
	}

	return mimetype.Detect(data).String()
}

func (f *File) Identity() Identity {
	return Identity{ID: f.ID, Name: f.Name}
}

func (f *File) Kind() Kind {
	kind, _ := KindOf(f.MediaType)
	return kind
}
