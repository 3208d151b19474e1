// Package pipeline runs candidate files through validation, text extraction
// and structuring, one file at a time and in input order.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/resume-extractor/internal/ai"
	"github.com/spigell/resume-extractor/internal/document"
	"github.com/spigell/resume-extractor/internal/logger"
)

// DefaultMinTextLength is the shortest trimmed text worth structuring.
const DefaultMinTextLength = 10

type Validator interface {
	Validate(f *document.File) error
}

type TextExtractor interface {
	Extract(ctx context.Context, f *document.File) (string, error)
}

// Deps aggregates the collaborators of a Runner.
type Deps struct {
	Validator  Validator
	Extractor  TextExtractor
	Structurer ai.Structurer
	Logger     *zap.Logger
}

// Progress is called after the outcome of file index (0-based) is recorded.
type Progress func(index, total int, outcome Outcome)

type Runner struct {
	deps          Deps
	minTextLength int
	progress      Progress
}

type Option func(*Runner)

func WithMinTextLength(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.minTextLength = n
		}
	}
}

func WithProgress(p Progress) Option {
	return func(r *Runner) { r.progress = p }
}

func NewRunner(deps Deps, opts ...Option) (*Runner, error) {
	switch {
	case deps.Validator == nil:
		return nil, errors.New("validator is required")
	case deps.Extractor == nil:
		return nil, errors.New("text extractor is required")
	case deps.Structurer == nil:
		return nil, errors.New("structurer is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	r := &Runner{deps: deps, minTextLength: DefaultMinTextLength}
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Run processes files sequentially and returns one outcome per file, index
// aligned with the input. Per-file failures never stop the batch. The only
// error returned is the context's: the outcomes recorded before cancellation
// are returned with it and no further file is started.
func (r *Runner) Run(ctx context.Context, files []*document.File) ([]Outcome, error) {
	log := logger.WithCommonFields(r.deps.Logger, r.deps.Structurer.Name(), "")
	outcomes := make([]Outcome, 0, len(files))

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		outcome := r.process(ctx, log, f)
		if !outcome.OK() && ctx.Err() != nil {
			// the failure is the cancellation itself, not this file's fault
			return outcomes, ctx.Err()
		}

		outcomes = append(outcomes, outcome)
		if r.progress != nil {
			r.progress(i, len(files), outcome)
		}
	}

	summary := Summarize(outcomes)
	log.Info("batch processed",
		zap.Int("total", summary.Total),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("rejected", summary.Rejected),
		zap.Int("failed", summary.Failed),
	)

	return outcomes, nil
}

func (r *Runner) process(ctx context.Context, log *zap.Logger, f *document.File) Outcome {
	log = logger.WithFields(log, logger.FileFields(f.Name, f.MediaType)...)

	if err := r.deps.Validator.Validate(f); err != nil {
		log.Info("file rejected", zap.Error(err))
		return rejected(f, err)
	}

	if err := f.Load(); err != nil {
		log.Warn("reading file failed", zap.Error(err))
		return failed(f, StageRead, err)
	}

	text, err := r.deps.Extractor.Extract(ctx, f)
	if err != nil {
		log.Warn("text extraction failed", zap.Error(err))
		return failed(f, StageExtract, err)
	}

	if utf8.RuneCountInString(strings.TrimSpace(text)) < r.minTextLength {
		log.Warn("extracted text too short", zap.Int("length", utf8.RuneCountInString(strings.TrimSpace(text))))
		return failed(f, StageExtract, ErrNoText)
	}

	rec, err := r.deps.Structurer.Structure(ctx, ai.Input{File: f, Text: text})
	if err == nil && rec == nil {
		err = errors.New("structurer returned no record")
	}
	if err != nil {
		serr := &StructuringError{Structurer: r.deps.Structurer.Name(), Err: err}
		log.Warn("structuring failed", zap.Error(serr))
		return failed(f, StageStructure, serr)
	}

	log.Debug("file structured", zap.String("name", rec.Name), zap.Int("skills", len(rec.Skills)))
	return succeeded(f, rec)
}
