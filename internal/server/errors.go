package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// APIError is the `{ "error": ..., "details": ... }` body every failure is
// answered with.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("%d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%d: %s: %s", e.Status, e.Message, e.Details)
}

func NewBadRequestError(message string, cause error) *APIError {
	return newAPIError(http.StatusBadRequest, message, cause)
}

// NewStructuringError is returned when the structurer could not produce a record.
func NewStructuringError(cause error) *APIError {
	return newAPIError(http.StatusBadGateway, "Could not structure the file", cause)
}

func NewInternalError(message string, cause error) *APIError {
	return newAPIError(http.StatusInternalServerError, message, cause)
}

func newAPIError(status int, message string, cause error) *APIError {
	err := &APIError{Status: status, Message: message}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// errorHandler renders every error as an APIError.
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var apiErr *APIError
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &apiErr):
		case errors.As(err, &httpErr):
			apiErr = &APIError{Status: httpErr.Code, Message: fmt.Sprintf("%v", httpErr.Message)}
		default:
			apiErr = NewInternalError("Internal server error", err)
		}

		if apiErr.Status >= http.StatusInternalServerError {
			logger.Warn("request failed",
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", apiErr.Status),
				zap.Error(err),
			)
		}

		if err := c.JSON(apiErr.Status, apiErr); err != nil {
			logger.Error("write error response", zap.Error(err))
		}
	}
}
