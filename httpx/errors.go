// Package httpx provides the shared HTTP client used for the unofficial
// mirror and destination-store APIs, with per-host rate limiting, request
// timeouts, and retry on transient failures.
package httpx

import (
	"errors"
	"fmt"
	"time"
)

// RateLimitError indicates the server rate limited the request.
type RateLimitError struct {
	// StatusCode is the HTTP status code (429 or 503).
	StatusCode int
	// RetryAfter indicates how long to wait before retrying, when the
	// server said so.
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (status %d): retry after %v", e.StatusCode, e.RetryAfter)
	}
	return fmt.Sprintf("rate limited (status %d)", e.StatusCode)
}

// HTTPError indicates a non-2xx response.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: status %d", e.StatusCode)
}

// ErrNoResponse indicates no response was received from the server.
var ErrNoResponse = errors.New("no response received")

// IsTransient reports whether an error is worth retrying: rate limits,
// server-side 5xx, and transport failures; client errors are permanent.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var rle *RateLimitError
	if errors.As(err, &rle) {
		return true
	}

	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode >= 500
	}

	// Network-level failures default to retryable.
	return true
}
