package youtube

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Sentinel errors for permanent conditions.
var (
	// ErrChannelNotFound means the channel does not exist.
	ErrChannelNotFound = errors.New("channel not found")
	// ErrVideoNotFound means the video does not exist or was removed.
	ErrVideoNotFound = errors.New("video not found")
	// ErrQuotaExceeded means the API key's daily quota is spent.
	ErrQuotaExceeded = errors.New("api quota exceeded")
)

// APIError is an error payload the platform returned in place of items.
type APIError struct {
	Code    int
	Reason  string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Error %d %s! %s", e.Code, e.Reason, e.Message)
}

var markupPattern = regexp.MustCompile(`<[^>]*>`)

// stripMarkup removes HTML tags from an upstream error message so it reads
// cleanly in the run's failure block.
func stripMarkup(s string) string {
	return strings.TrimSpace(markupPattern.ReplaceAllString(s, ""))
}

// isRetryableAPIError reports whether an API call is worth retrying.
// Not-found conditions are permanent; quota and rate errors back off and
// retry, everything else defaults to retryable.
func isRetryableAPIError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrChannelNotFound) || errors.Is(err, ErrVideoNotFound) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Reason {
		case "quotaExceeded", "rateLimitExceeded", "userRateLimitExceeded", "backendError":
			return true
		}
		// Other structured API errors (bad request, forbidden) are permanent.
		return apiErr.Code >= 500
	}

	return true
}
