package httpx

import (
	"errors"
	"testing"
	"time"
)

func tripBreaker(cb *CircuitBreaker, host string, n int) {
	err := &HTTPError{StatusCode: 503}
	for i := 0; i < n; i++ {
		cb.RecordFailure(host, err)
	}
}

func TestCircuitBreakerOpensAtThreshold(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 3, RecoveryTimeout: time.Minute})

	tripBreaker(cb, "api.example.com", 2)
	if err := cb.Allow("api.example.com"); err != nil {
		t.Fatalf("Allow below threshold: %v", err)
	}
	if got := cb.State("api.example.com"); got != CircuitClosed {
		t.Errorf("state = %v, want closed", got)
	}

	tripBreaker(cb, "api.example.com", 1)
	if err := cb.Allow("api.example.com"); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Allow after threshold = %v, want ErrCircuitOpen", err)
	}
	if got := cb.State("api.example.com"); got != CircuitOpen {
		t.Errorf("state = %v, want open", got)
	}
}

func TestCircuitBreakerIgnoresPermanentErrors(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, RecoveryTimeout: time.Minute})

	cb.RecordFailure("h", &HTTPError{StatusCode: 404})
	cb.RecordFailure("h", &HTTPError{StatusCode: 404})
	if err := cb.Allow("h"); err != nil {
		t.Errorf("permanent errors tripped the circuit: %v", err)
	}
}

func TestCircuitBreakerHalfOpenProbe(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, RecoveryTimeout: 10 * time.Millisecond})

	tripBreaker(cb, "h", 1)
	if err := cb.Allow("h"); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("Allow while open = %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	if got := cb.State("h"); got != CircuitHalfOpen {
		t.Errorf("state after timeout = %v, want half-open", got)
	}

	// One probe is admitted, a second is not.
	if err := cb.Allow("h"); err != nil {
		t.Fatalf("probe not admitted: %v", err)
	}
	if err := cb.Allow("h"); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("second probe admitted")
	}

	cb.RecordSuccess("h")
	if got := cb.State("h"); got != CircuitClosed {
		t.Errorf("state after probe success = %v, want closed", got)
	}
	if err := cb.Allow("h"); err != nil {
		t.Errorf("Allow after close: %v", err)
	}
}

func TestCircuitBreakerProbeFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, RecoveryTimeout: 10 * time.Millisecond})

	tripBreaker(cb, "h", 1)
	time.Sleep(20 * time.Millisecond)
	if err := cb.Allow("h"); err != nil {
		t.Fatalf("probe not admitted: %v", err)
	}

	cb.RecordFailure("h", &HTTPError{StatusCode: 502})
	if err := cb.Allow("h"); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Allow after probe failure = %v, want ErrCircuitOpen", err)
	}
}

func TestCircuitBreakerHostsIndependent(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, RecoveryTimeout: time.Minute})

	tripBreaker(cb, "down.example.com", 1)
	if err := cb.Allow("up.example.com"); err != nil {
		t.Errorf("healthy host blocked: %v", err)
	}
}
