// Package ai defines how extracted resume text becomes a structured record.
package ai

import (
	"context"

	"github.com/spigell/resume-extractor/internal/document"
	"github.com/spigell/resume-extractor/internal/fields"
	"github.com/spigell/resume-extractor/internal/record"
)

// Input is what a structurer gets for one file: the original document and
// the text already extracted from it.
type Input struct {
	File *document.File
	Text string
}

// Structurer turns one document into a record. Implementations that talk to
// a remote service must return an error rather than an empty record when the
// service fails.
type Structurer interface {
	Structure(ctx context.Context, in Input) (*record.Record, error)
	Name() string
}

// Local applies the heuristic field extractor. It never fails.
type Local struct{}

func (Local) Name() string { return "local" }

func (Local) Structure(ctx context.Context, in Input) (*record.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fields.Extract(in.Text), nil
}
