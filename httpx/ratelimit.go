package httpx

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiterConfig defines per-host request pacing.
type RateLimiterConfig struct {
	// DefaultRPS is the requests-per-second allowance for hosts without a
	// custom rate. Zero disables limiting for those hosts.
	DefaultRPS float64
	// HostRates maps hostnames to RPS values overriding the default.
	HostRates map[string]float64
}

// DefaultRateLimiterConfig paces conservatively: unofficial endpoints
// tolerate a couple of requests per second, the destination store's API
// allows five.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		DefaultRPS: 2.5,
		HostRates: map[string]float64{
			"api.airtable.com": 5.0,
		},
	}
}

// RateLimiter paces requests per host using token buckets.
type RateLimiter struct {
	config   RateLimiterConfig
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewRateLimiter creates a rate limiter with the given configuration.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	return &RateLimiter{
		config:   cfg,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until the host's token bucket permits a request, or the
// context is done.
func (r *RateLimiter) Wait(ctx context.Context, urlStr string) error {
	limiter := r.limiterFor(extractHost(urlStr))
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

func (r *RateLimiter) limiterFor(host string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.limiters[host]; ok {
		return l
	}

	rps := r.config.DefaultRPS
	if custom, ok := r.config.HostRates[host]; ok {
		rps = custom
	}
	if rps <= 0 {
		r.limiters[host] = nil
		return nil
	}

	// Burst of one keeps calls strictly paced.
	l := rate.NewLimiter(rate.Limit(rps), 1)
	r.limiters[host] = l
	return l
}

func extractHost(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return urlStr
	}
	return u.Hostname()
}
