package document

import "fmt"

// DefaultMaxSize is 10 MiB.
const DefaultMaxSize int64 = 10 << 20

const (
	ReasonUnsupportedType = "unsupported type"
	ReasonTooLarge        = "too large"
)

// ValidationError is returned when a file is rejected before any extraction.
type ValidationError struct {
	Reason    string
	MediaType string
	Size      int64
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonTooLarge:
		return fmt.Sprintf("%s: %d bytes", e.Reason, e.Size)
	case ReasonUnsupportedType:
		return fmt.Sprintf("%s: %q", e.Reason, e.MediaType)
	default:
		return e.Reason
	}
}

type Validator struct {
	MaxSize int64
}

func NewValidator(maxSize int64) *Validator {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Validator{MaxSize: maxSize}
}

// Validate looks only at the declared media type and the size; the payload is never read.
func (v *Validator) Validate(f *File) error {
	if _, ok := KindOf(f.MediaType); !ok {
		return &ValidationError{Reason: ReasonUnsupportedType, MediaType: f.MediaType, Size: f.Size}
	}

	if f.Size > v.MaxSize {
		return &ValidationError{Reason: ReasonTooLarge, MediaType: f.MediaType, Size: f.Size}
	}

	return nil
}
