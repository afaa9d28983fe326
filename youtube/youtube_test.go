package youtube

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ytimport/retry"
)

func TestBatchIDs(t *testing.T) {
	ids := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf("id%d", i)
		}
		return out
	}

	tests := []struct {
		n    int
		want []int
	}{
		{0, nil},
		{1, []int{1}},
		{50, []int{50}},
		{51, []int{50, 1}},
		{137, []int{50, 50, 37}},
	}

	for _, tt := range tests {
		batches := batchIDs(ids(tt.n))
		if len(batches) != len(tt.want) {
			t.Errorf("batchIDs(%d ids): %d batches, want %d", tt.n, len(batches), len(tt.want))
			continue
		}
		for i, size := range tt.want {
			if len(batches[i]) != size {
				t.Errorf("batchIDs(%d ids): batch %d has %d ids, want %d", tt.n, i, len(batches[i]), size)
			}
		}
	}
}

func TestAPIErrorFormat(t *testing.T) {
	err := &APIError{Code: 403, Reason: "quotaExceeded", Message: "The request cannot be completed"}
	want := "Error 403 quotaExceeded! The request cannot be completed"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`Quota exceeded. <a href="https://console.example.com">Learn more</a>`, "Quota exceeded. Learn more"},
		{"plain text", "plain text"},
		{"<b>bold</b> claim", "bold claim"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := stripMarkup(tt.input); got != tt.want {
			t.Errorf("stripMarkup(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSearchFailsEarlyWhenQuotaSpent(t *testing.T) {
	// A spent estimate rejects the call before any request is built, so no
	// service is needed.
	c := &APIClient{
		retryConfig:    retry.DefaultConfig(),
		estimatedQuota: quotaCostSearch - 1,
		lastQuotaReset: time.Now(),
	}

	_, err := c.Search(context.Background(), SearchParams{Query: "gophers", Mode: SearchVideos})
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("Search() error = %v, want ErrQuotaExceeded", err)
	}

	// A cheap list call still fits within the remainder.
	if err := c.checkQuota(quotaCostList); err != nil {
		t.Errorf("checkQuota(%d) = %v, want nil", quotaCostList, err)
	}
}

func TestCheckQuotaResetsAfterADay(t *testing.T) {
	c := &APIClient{
		estimatedQuota: 0,
		lastQuotaReset: time.Now().Add(-25 * time.Hour),
	}

	if err := c.checkQuota(quotaCostSearch); err != nil {
		t.Fatalf("checkQuota() after reset window = %v, want nil", err)
	}
	if got := c.EstimatedQuota(); got != dailyQuota {
		t.Errorf("EstimatedQuota() = %d, want %d", got, dailyQuota)
	}
}

func TestIsRetryableAPIError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"channel not found", ErrChannelNotFound, false},
		{"video not found", fmt.Errorf("lookup: %w", ErrVideoNotFound), false},
		{"quota", &APIError{Code: 403, Reason: "quotaExceeded"}, true},
		{"rate limit", &APIError{Code: 403, Reason: "rateLimitExceeded"}, true},
		{"bad request", &APIError{Code: 400, Reason: "invalidParameter"}, false},
		{"server error", &APIError{Code: 503, Reason: "backendUnavailable"}, true},
		{"network", errors.New("connection reset"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableAPIError(tt.err); got != tt.want {
				t.Errorf("isRetryableAPIError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
