package notify

import (
	"context"
	"errors"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"
)

// ErrIndexUnavailable is returned while the breaker is open.
var ErrIndexUnavailable = errors.New("search index unavailable")

// Breaker wraps a Notifier with a circuit breaker so a flaky index
// backend cannot slow every upload down. While the circuit is open,
// notifications fail fast with ErrIndexUnavailable.
type Breaker struct {
	next    Notifier
	breaker *circuit.Breaker
}

// Option configures a Breaker.
type Option func(*breakerConfig)

type breakerConfig struct {
	threshold    int64
	resetInitial time.Duration
	resetMax     time.Duration
}

// WithThreshold sets how many consecutive failures trip the circuit.
func WithThreshold(n int64) Option {
	return func(c *breakerConfig) {
		c.threshold = n
	}
}

// WithResetInterval sets the initial and maximum retry-probe intervals
// once the circuit has tripped.
func WithResetInterval(initial, max time.Duration) Option {
	return func(c *breakerConfig) {
		c.resetInitial = initial
		c.resetMax = max
	}
}

// NewBreaker wraps next with a circuit breaker. Defaults: trip after 5
// consecutive failures, probe again on an exponential schedule from 30s
// up to 5m.
func NewBreaker(next Notifier, opts ...Option) *Breaker {
	cfg := &breakerConfig{
		threshold:    5,
		resetInitial: 30 * time.Second,
		resetMax:     5 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = cfg.resetInitial
	expBackoff.MaxInterval = cfg.resetMax
	expBackoff.Multiplier = 2.0
	expBackoff.Reset()

	return &Breaker{
		next: next,
		breaker: circuit.NewBreakerWithOptions(&circuit.Options{
			BackOff:    expBackoff,
			ShouldTrip: circuit.ThresholdTripFunc(cfg.threshold),
		}),
	}
}

// NotifyChanged forwards the notification unless the circuit is open.
func (b *Breaker) NotifyChanged(ctx context.Context) error {
	if !b.breaker.Ready() {
		return ErrIndexUnavailable
	}
	return b.breaker.Call(func() error {
		return b.next.NotifyChanged(ctx)
	}, 0)
}

// Tripped reports whether the circuit is currently open, for health
// checks.
func (b *Breaker) Tripped() bool {
	return b.breaker.Tripped()
}
