// Package remote calls an HTTP structuring service: one multipart upload per
// file, answered by a record or an `{ "error": ... }` payload.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/resume-extractor/internal/ai"
	"github.com/spigell/resume-extractor/internal/logger"
	"github.com/spigell/resume-extractor/internal/record"
	"github.com/spigell/resume-extractor/internal/utils"
)

const (
	Provider = "remote"
	// FileField is the multipart field carrying the document.
	FileField = "cv_file"

	defaultTimeout = 60 * time.Second
	// Responses above this size are not records.
	maxResponseSize  = 1 << 20
	errorBodyPreview = 200
)

// StatusError is a non-success HTTP answer from the service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("structuring service returned %d", e.Code)
	}
	return fmt.Sprintf("structuring service returned %d: %s", e.Code, e.Body)
}

type Client struct {
	url    string
	token  string
	http   *http.Client
	logger *zap.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default client, whose timeout is 60s.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithToken sends token as a bearer credential.
func WithToken(token string) Option {
	return func(cl *Client) { cl.token = strings.TrimSpace(token) }
}

func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.http = &http.Client{Timeout: d}
		}
	}
}

func New(url string, log *zap.Logger, opts ...Option) (*Client, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("remote structuring url is required")
	}

	c := &Client{
		url:    url,
		http:   &http.Client{Timeout: defaultTimeout},
		logger: logger.WithCommonFields(log, Provider, ""),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Client) Name() string { return Provider }

// Structure uploads the original file. The service does its own text
// extraction, so in.Text is only used for logging.
func (c *Client) Structure(ctx context.Context, in ai.Input) (*record.Record, error) {
	if in.File == nil {
		return nil, errors.New("remote structuring needs the original file")
	}

	body, contentType, err := multipartBody(in)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log := logger.WithFields(c.logger, logger.FileFields(in.File.Name, in.File.MediaType)...)
	log.Debug("sending file to structuring service", zap.Int64("size", in.File.Size), zap.Int("text_length", len(in.Text)))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call structuring service: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read structuring response: %w", err)
	}

	log.Debug("structuring service answered",
		zap.Int("status", resp.StatusCode),
		zap.String("response_preview", utils.TruncateForLog(string(payload), errorBodyPreview)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Prefer the service's own error message when it sent one.
		if _, perr := record.ParsePayload(payload); perr != nil {
			var svcErr *record.ServiceError
			if errors.As(perr, &svcErr) {
				return nil, fmt.Errorf("structuring service returned %d: %w", resp.StatusCode, svcErr)
			}
		}
		return nil, &StatusError{Code: resp.StatusCode, Body: utils.TruncateForLog(string(payload), errorBodyPreview)}
	}

	return record.ParsePayload(payload)
}

func multipartBody(in ai.Input) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, FileField, in.File.Name))
	if in.File.MediaType != "" {
		header.Set("Content-Type", in.File.MediaType)
	} else {
		header.Set("Content-Type", "application/octet-stream")
	}

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := part.Write(in.File.Data); err != nil {
		return nil, "", fmt.Errorf("write multipart part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}
