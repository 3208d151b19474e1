package textextract

import (
	"context"
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

var errInvalidUTF8 = errors.New("input is not valid UTF-8")

type plainText struct{}

func NewPlainText() Extractor {
	return plainText{}
}

// Extract returns the bytes verbatim, minus a leading byte order mark.
func (plainText) Extract(_ context.Context, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errInvalidUTF8
	}

	decoded, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}

	return string(decoded), nil
}
