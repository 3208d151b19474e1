// Package server exposes the extraction pipeline as the structuring service:
// one multipart upload in, one record or `{ "error" }` payload out.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/spigell/resume-extractor/internal/ai/remote"
	"github.com/spigell/resume-extractor/internal/document"
	"github.com/spigell/resume-extractor/internal/pipeline"
	"github.com/spigell/resume-extractor/internal/textextract"
)

const (
	FileField        = remote.FileField
	DefaultListen    = ":8080"
	DefaultBodyLimit = "12M"
	shutdownTimeout  = 10 * time.Second
)

type Config struct {
	Listen    string
	BodyLimit string
}

type Runner interface {
	Run(ctx context.Context, files []*document.File) ([]pipeline.Outcome, error)
}

type Server struct {
	echo   *echo.Echo
	runner Runner
	listen string
	logger *zap.Logger
}

func New(cfg Config, runner Runner, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	if cfg.BodyLimit == "" {
		cfg.BodyLimit = DefaultBodyLimit
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10,
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))

	s := &Server{echo: e, runner: runner, listen: cfg.Listen, logger: logger}

	api := e.Group("/api")
	api.GET("/health", s.handleHealth)
	e.POST("/extract-cv", s.handleExtract)

	return s
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("address", s.listen))
		errCh <- s.echo.Start(s.listen)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExtract(c echo.Context) error {
	header, err := c.FormFile(FileField)
	if err != nil {
		return NewBadRequestError("No file uploaded", nil)
	}

	src, err := header.Open()
	if err != nil {
		return NewBadRequestError("Could not read the uploaded file", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return NewBadRequestError("Could not read the uploaded file", err)
	}

	outcomes, err := s.runner.Run(c.Request().Context(), []*document.File{document.FromBytes(header.Filename, data)})
	if err != nil {
		return NewInternalError("Request cancelled", err)
	}
	if len(outcomes) != 1 {
		return NewInternalError("Internal server error", errors.New("no outcome for the uploaded file"))
	}

	outcome := outcomes[0]
	switch outcome.Status {
	case pipeline.StatusOK:
		return c.JSON(http.StatusOK, outcome.Record)
	case pipeline.StatusRejected:
		return rejection(outcome.Err)
	}

	if outcome.Stage == pipeline.StageStructure {
		return NewStructuringError(outcome.Err)
	}

	var exErr *textextract.ExtractionError
	if errors.As(outcome.Err, &exErr) {
		return NewBadRequestError("Could not extract text from the file", exErr.Err)
	}
	return NewBadRequestError("Could not extract meaningful text from the file", nil)
}

func rejection(err error) *APIError {
	var verr *document.ValidationError
	if errors.As(err, &verr) && verr.Reason == document.ReasonTooLarge {
		return NewBadRequestError("File is too large", verr)
	}
	return NewBadRequestError("Unsupported file type. Please upload PDF, DOCX, or TXT files.", nil)
}
