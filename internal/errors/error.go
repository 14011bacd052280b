package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured       = errors.New("upstream is not configured")
	ErrUpstreamUnreachable = errors.New("failed reaching upstream")
	ErrPayloadNotObject    = errors.New("order payload must be an object")
	ErrNoProducts          = errors.New("order must include at least one product")
	ErrInvalidProduct      = errors.New("each product must include a numeric id and quantity")
	ErrRateLimited         = errors.New("too many submissions")
	ErrOriginNotAllowed    = errors.New("origin is not allowed")
	ErrMissingSessionID    = errors.New("missing session_id parameter")
	ErrNotFound            = errors.New("resource not found")
)

// UpstreamError carries the status code and message reported by the content
// repository or the payment provider so controllers can surface them as-is.
type UpstreamError struct {
	Message    string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status code=%d with message=%s", e.StatusCode, e.Message)
}
