package pipeline

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/spigell/resume-extractor/internal/document"
	"github.com/spigell/resume-extractor/internal/preview"
)

// Session is the state of one batch: the files in upload order, the outcomes
// of the last run and the live preview. It is owned by a single caller and is
// not safe for concurrent use.
type Session struct {
	ID string

	runner   *Runner
	previews *preview.Tracker
	files    []*document.File
	outcomes []Outcome
}

// NewSession creates an empty batch. previews may be nil when nothing is shown.
func NewSession(runner *Runner, previews *preview.Tracker) *Session {
	return &Session{ID: uuid.NewString(), runner: runner, previews: previews}
}

func (s *Session) Add(files ...*document.File) {
	s.files = append(s.files, files...)
}

func (s *Session) Files() []*document.File {
	return slices.Clone(s.files)
}

func (s *Session) File(id string) (*document.File, bool) {
	for _, f := range s.files {
		if f.ID == id {
			return f, true
		}
	}
	return nil, false
}

// Remove drops a file together with its outcome and releases its preview.
func (s *Session) Remove(id string) (bool, error) {
	idx := slices.IndexFunc(s.files, func(f *document.File) bool { return f.ID == id })
	if idx < 0 {
		return false, nil
	}
	s.files = slices.Delete(s.files, idx, idx+1)
	s.outcomes = slices.DeleteFunc(s.outcomes, func(o Outcome) bool { return o.File.ID == id })

	if s.previews != nil {
		if err := s.previews.Remove(id); err != nil {
			return true, err
		}
	}

	return true, nil
}

// Run processes every file of the batch and keeps the outcomes.
func (s *Session) Run(ctx context.Context) ([]Outcome, error) {
	outcomes, err := s.runner.Run(ctx, s.files)
	s.outcomes = outcomes
	return s.Outcomes(), err
}

func (s *Session) Outcomes() []Outcome {
	return slices.Clone(s.outcomes)
}

// Preview renders a file of the batch, replacing the previous preview.
func (s *Session) Preview(ctx context.Context, id string) (*preview.View, error) {
	if s.previews == nil {
		return nil, fmt.Errorf("previews are not enabled for session %s", s.ID)
	}

	f, ok := s.File(id)
	if !ok {
		return nil, fmt.Errorf("file %s is not part of session %s", id, s.ID)
	}

	return s.previews.Show(ctx, f)
}

// Close releases the live preview.
func (s *Session) Close() error {
	if s.previews == nil {
		return nil
	}
	return s.previews.Close()
}
