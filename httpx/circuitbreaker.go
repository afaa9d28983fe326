package httpx

import (
	"errors"
	"sync"
	"time"
)

// CircuitState is a per-host breaker state.
type CircuitState int

const (
	// CircuitClosed allows requests.
	CircuitClosed CircuitState = iota
	// CircuitOpen fails requests fast.
	CircuitOpen
	// CircuitHalfOpen allows a single probe request.
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned when a host's circuit is open.
var ErrCircuitOpen = errors.New("circuit open")

// CircuitBreakerConfig tunes the per-host breaker.
type CircuitBreakerConfig struct {
	// FailureThreshold is the consecutive transient-failure count that opens
	// the circuit.
	FailureThreshold int
	// RecoveryTimeout is how long an open circuit waits before a probe.
	RecoveryTimeout time.Duration
}

// DefaultCircuitBreakerConfig opens after five consecutive failures and
// probes after thirty seconds.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		RecoveryTimeout:  30 * time.Second,
	}
}

type hostCircuit struct {
	state      CircuitState
	failures   int
	openedAt   time.Time
	probeInUse bool
}

// CircuitBreaker tracks consecutive transient failures per host and fails
// fast while a host looks down. Permanent errors never trip it.
type CircuitBreaker struct {
	mu     sync.Mutex
	config CircuitBreakerConfig
	hosts  map[string]*hostCircuit
}

// NewCircuitBreaker creates a breaker; zero config fields get defaults.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCircuitBreakerConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.RecoveryTimeout <= 0 {
		cfg.RecoveryTimeout = def.RecoveryTimeout
	}
	return &CircuitBreaker{config: cfg, hosts: make(map[string]*hostCircuit)}
}

// Allow reports whether a request to the host may proceed. An open circuit
// past its recovery timeout admits one probe.
func (cb *CircuitBreaker) Allow(host string) error {
	if cb == nil {
		return nil
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	h := cb.host(host)
	switch h.state {
	case CircuitClosed:
		return nil
	case CircuitOpen:
		if time.Since(h.openedAt) >= cb.config.RecoveryTimeout {
			h.state = CircuitHalfOpen
			h.probeInUse = true
			return nil
		}
		return ErrCircuitOpen
	default: // CircuitHalfOpen
		if h.probeInUse {
			return ErrCircuitOpen
		}
		h.probeInUse = true
		return nil
	}
}

// RecordSuccess closes the host's circuit.
func (cb *CircuitBreaker) RecordSuccess(host string) {
	if cb == nil {
		return
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	h := cb.host(host)
	h.state = CircuitClosed
	h.failures = 0
	h.probeInUse = false
}

// RecordFailure counts a transient failure; permanent failures are ignored.
// Reaching the threshold, or failing the half-open probe, opens the circuit.
func (cb *CircuitBreaker) RecordFailure(host string, err error) {
	if cb == nil || !IsTransient(err) {
		return
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	h := cb.host(host)
	h.failures++
	h.probeInUse = false
	if h.state == CircuitHalfOpen || h.failures >= cb.config.FailureThreshold {
		h.state = CircuitOpen
		h.openedAt = time.Now()
	}
}

// State reports the host's current circuit state.
func (cb *CircuitBreaker) State(host string) CircuitState {
	if cb == nil {
		return CircuitClosed
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	h, ok := cb.hosts[host]
	if !ok {
		return CircuitClosed
	}
	if h.state == CircuitOpen && time.Since(h.openedAt) >= cb.config.RecoveryTimeout {
		return CircuitHalfOpen
	}
	return h.state
}

func (cb *CircuitBreaker) host(name string) *hostCircuit {
	h, ok := cb.hosts[name]
	if !ok {
		h = &hostCircuit{}
		cb.hosts[name] = h
	}
	return h
}
