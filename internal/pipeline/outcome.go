package pipeline

import (
	"errors"
	"fmt"

	"github.com/spigell/resume-extractor/internal/document"
	"github.com/spigell/resume-extractor/internal/record"
)

type Status string

const (
	StatusOK       Status = "ok"
	StatusRejected Status = "rejected"
	StatusFailed   Status = "failed"
)

// Stage names the step at which a file stopped.
type Stage string

const (
	StageValidate  Stage = "validate"
	StageRead      Stage = "read"
	StageExtract   Stage = "extract"
	StageStructure Stage = "structure"
)

// ErrNoText is reported when extraction succeeded but produced too little text.
var ErrNoText = errors.New("could not extract meaningful text from the file")

// StructuringError wraps a structurer failure for one file.
type StructuringError struct {
	Structurer string
	Err        error
}

func (e *StructuringError) Error() string {
	return fmt.Sprintf("%s structuring: %v", e.Structurer, e.Err)
}

func (e *StructuringError) Unwrap() error { return e.Err }

// Outcome is the result for one input file. Exactly one of Record or Err is set.
type Outcome struct {
	File   document.Identity `json:"file"`
	Status Status            `json:"status"`
	Stage  Stage             `json:"stage,omitempty"`
	Record *record.Record    `json:"record,omitempty"`
	Reason string            `json:"reason,omitempty"`
	Err    error             `json:"-"`
}

func (o Outcome) OK() bool { return o.Status == StatusOK }

func succeeded(f *document.File, rec *record.Record) Outcome {
	return Outcome{File: f.Identity(), Status: StatusOK, Record: rec}
}

func rejected(f *document.File, err error) Outcome {
	reason := err.Error()
	var verr *document.ValidationError
	if errors.As(err, &verr) {
		reason = verr.Reason
	}
	return Outcome{File: f.Identity(), Status: StatusRejected, Stage: StageValidate, Reason: reason, Err: err}
}

func failed(f *document.File, stage Stage, err error) Outcome {
	return Outcome{File: f.Identity(), Status: StatusFailed, Stage: stage, Reason: err.Error(), Err: err}
}

// Summary counts outcomes by status.
type Summary struct {
	Total     int
	Succeeded int
	Rejected  int
	Failed    int
}

func Summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		switch o.Status {
		case StatusOK:
			s.Succeeded++
		case StatusRejected:
			s.Rejected++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}
