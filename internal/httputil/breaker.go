// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// BreakerState is the position of a Breaker.
type BreakerState int

const (
	StateClosed BreakerState = iota
	StateHalfOpen
	StateOpen
)

// String returns the lower-case state name used in logs.
func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// ErrBreakerOpen is returned without calling the wrapped client while the circuit is open.
var ErrBreakerOpen = errors.New("circuit breaker is open")

// BreakerConfig tunes when a Breaker opens and how long it stays open.
type BreakerConfig struct {
	FailureThreshold int           // consecutive failures that open the circuit
	Cooldown         time.Duration // wait before a half-open probe
}

// Breaker wraps a Doer with a circuit breaker. Transport errors and 5xx
// responses count as failures. 4xx responses and requests cancelled by the
// caller do not.
type Breaker struct {
	name   string
	next   Doer
	config BreakerConfig
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	state    BreakerState
	failures int
	openedAt time.Time
	probing  bool
}

// NewBreaker wraps next. Zero config fields get defaults of 3 failures and 30s.
func NewBreaker(name string, next Doer, config BreakerConfig, logger *zap.Logger) *Breaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 3
	}
	if config.Cooldown <= 0 {
		config.Cooldown = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Breaker{name: name, next: next, config: config, logger: logger, now: time.Now}
}

// State returns the current state.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState()
}

// Do executes req through the breaker.
func (b *Breaker) Do(req *http.Request) (*http.Response, error) {
	if err := b.before(); err != nil {
		return nil, err
	}
	resp, err := b.next.Do(req)
	if err != nil && errors.Is(err, context.Canceled) {
		b.abandon()
		return resp, err
	}
	b.after(err == nil && resp.StatusCode < 500)
	return resp, err
}

// abandon releases a half-open probe slot without a verdict.
func (b *Breaker) abandon() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.probing = false
}

func (b *Breaker) before() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.currentState() {
	case StateOpen:
		return ErrBreakerOpen
	case StateHalfOpen:
		if b.probing {
			return ErrBreakerOpen
		}
		b.probing = true
	}
	return nil
}

func (b *Breaker) after(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	state := b.currentState()
	b.probing = false
	if success {
		b.failures = 0
		if state != StateClosed {
			b.setState(StateClosed)
		}
		return
	}

	b.failures++
	if state == StateHalfOpen || b.failures >= b.config.FailureThreshold {
		b.openedAt = b.now()
		b.setState(StateOpen)
	}
}

// currentState must be called with mu held.
func (b *Breaker) currentState() BreakerState {
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.config.Cooldown {
		b.setState(StateHalfOpen)
	}
	return b.state
}

func (b *Breaker) setState(to BreakerState) {
	if b.state == to {
		return
	}
	from := b.state
	b.state = to
	b.logger.Info("circuit breaker state changed",
		zap.String("name", b.name),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	)
}
