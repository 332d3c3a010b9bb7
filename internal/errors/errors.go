// Package errors centralizes the error taxonomy for the HTTP boundary.
// Services return sentinel-wrapped errors; the handler layer maps them to
// status codes and keeps the underlying cause out of response bodies.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

var (
	// ErrInvalidArgument marks bad client input (missing or malformed fields).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound marks a missing record or an empty catalog on
	// single-pick endpoints. List endpoints return 200 with [] instead.
	ErrNotFound = errors.New("not found")
)

// InvalidArgument wraps msg so errors.Is(err, ErrInvalidArgument) holds.
func InvalidArgument(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}

// NotFound wraps msg so errors.Is(err, ErrNotFound) holds.
func NotFound(msg string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, msg)
}

// HTTPStatus converts service/repo/infra errors into an HTTP status code.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is what a client is allowed to see. Validation and
// not-found messages are safe to forward; anything else collapses to a
// generic message and the cause stays in the server log.
func PublicMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrNotFound):
		return err.Error()
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "record not found"
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	default:
		return "internal server error"
	}
}
