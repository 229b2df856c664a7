package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrUpstream     = errors.New("upstream failure")
	ErrTimeout      = errors.New("timeout")
)

// RateLimitedError signals an exhausted request budget. ResetAt is when the
// window opens again.
type RateLimitedError struct {
	ResetAt time.Time
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded, resets at %s", e.ResetAt.UTC().Format(time.RFC3339))
}

// NewRateLimited creates a RateLimitedError for the given reset time.
func NewRateLimited(resetAt time.Time) *RateLimitedError {
	return &RateLimitedError{ResetAt: resetAt}
}

// IsRateLimited reports whether err is a rate-limit rejection and returns the
// reset time when it is.
func IsRateLimited(err error) (*RateLimitedError, bool) {
	var rl *RateLimitedError
	if errors.As(err, &rl) {
		return rl, true
	}
	return nil, false
}

// HTTPStatus maps an error from the taxonomy to an HTTP status code.
func HTTPStatus(err error) int {
	if _, ok := IsRateLimited(err); ok {
		return http.StatusTooManyRequests
	}
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
