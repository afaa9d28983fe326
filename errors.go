package ytimport

import (
	"ytimport/retry"
	"ytimport/store"
	"ytimport/youtube"
)

// Error handling types exported for library users.
//
// All error types support the standard error handling patterns:
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, ytimport.ErrQuotaExceeded) {
//		fmt.Println("daily quota spent")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var apiErr *ytimport.APIError
//	if errors.As(err, &apiErr) {
//		fmt.Printf("platform rejected the call: %v\n", apiErr)
//	}

// Type aliases for convenient error handling.
type (
	// APIError is a structured platform API failure.
	APIError = youtube.APIError
	// RetryableError wraps errors that occurred after retries were exhausted.
	RetryableError = retry.RetryableError
	// StoreError wraps errors during destination table operations.
	StoreError = store.StoreError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrVideoNotFound indicates the video does not exist or was removed.
	ErrVideoNotFound = youtube.ErrVideoNotFound
	// ErrChannelNotFound indicates the channel does not exist or was removed.
	ErrChannelNotFound = youtube.ErrChannelNotFound
	// ErrQuotaExceeded indicates the API quota is spent for the day.
	ErrQuotaExceeded = youtube.ErrQuotaExceeded

	// ErrTableNotFound indicates the destination table does not exist.
	ErrTableNotFound = store.ErrTableNotFound
	// ErrFieldNotFound indicates a destination field does not exist.
	ErrFieldNotFound = store.ErrFieldNotFound
	// ErrInvalidInput indicates invalid input to a store operation.
	ErrInvalidInput = store.ErrInvalidInput
)
