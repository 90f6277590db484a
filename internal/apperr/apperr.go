// Package apperr classifies errors into the categories the HTTP layer maps
// to status codes.
package apperr

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrRateLimited  = errors.New("rate limited")
	ErrUpstream     = errors.New("upstream failure")
)

// Validation returns an error marked as ErrValidation whose message is the
// formatted text only.
func Validation(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrValidation)
}

func NotFound(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrNotFound)
}

func Conflict(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrConflict)
}

func Forbidden(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrForbidden)
}

func Unauthorized(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrUnauthorized)
}

func RateLimited(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrRateLimited)
}

// upstreamError keeps the client-facing message apart from the cause, which
// only ever reaches the logs.
type upstreamError struct {
	msg   string
	cause error
}

func (e *upstreamError) Error() string { return e.msg + ": " + e.cause.Error() }
func (e *upstreamError) Unwrap() error { return e.cause }

// Upstream marks err as a failure of an outbound integration. Public reports
// only msg.
func Upstream(err error, msg string) error {
	return errors.Mark(&upstreamError{msg: msg, cause: err}, ErrUpstream)
}

// IsNotFound reports whether err carries the ErrNotFound mark.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// Status maps an error to an HTTP status code. Unclassified errors are 500.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Public returns the message safe to show a client: the error text for
// classified errors, the bare message for upstream failures and a generic
// message otherwise.
func Public(err error) string {
	switch Status(err) {
	case http.StatusInternalServerError:
		return "internal server error"
	case http.StatusBadGateway:
		var u *upstreamError
		if errors.As(err, &u) {
			return u.msg
		}
		return "upstream service failure"
	}
	return err.Error()
}
