package services

import (
	"errors"
	"sync"
	"time"

	"finance-ledger/internal/models"
)

var ErrCircuitBreakerOpen = errors.New("circuit breaker is open")

type CircuitBreakerConfig struct {
	MaxFailures     int
	ResetTimeout    time.Duration
	HalfOpenMaxSucc int
}

// CircuitBreaker opens after MaxFailures consecutive failures. Once
// ResetTimeout has passed since it opened, calls are let through again in
// half-open state: HalfOpenMaxSucc successes close it, one failure reopens it.
type CircuitBreaker struct {
	mu        sync.Mutex
	config    CircuitBreakerConfig
	state     models.CircuitBreakerState
	failures  int
	successes int
	openedAt  time.Time
	now       func() time.Time
}

func NewCircuitBreaker(config CircuitBreakerConfig) CircuitBreakerInterface {
	if config.MaxFailures <= 0 {
		config.MaxFailures = 1
	}
	if config.HalfOpenMaxSucc <= 0 {
		config.HalfOpenMaxSucc = 1
	}
	return &CircuitBreaker{
		config: config,
		state:  models.BreakerClosed,
		now:    time.Now,
	}
}

// Allow reports whether a call may go out now
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.current() != models.BreakerOpen
}

// Record feeds the outcome of a call into the breaker and returns the state
// before and after it
func (cb *CircuitBreaker) Record(err error) (from, to models.CircuitBreakerState) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	from = cb.current()
	switch {
	case err == nil && from == models.BreakerHalfOpen:
		cb.successes++
		if cb.successes >= cb.config.HalfOpenMaxSucc {
			cb.moveTo(models.BreakerClosed)
		}
	case err == nil:
		cb.failures = 0
	case from == models.BreakerHalfOpen:
		cb.moveTo(models.BreakerOpen)
	case from == models.BreakerClosed:
		cb.failures++
		if cb.failures >= cb.config.MaxFailures {
			cb.moveTo(models.BreakerOpen)
		}
	}
	return from, cb.state
}

func (cb *CircuitBreaker) State() models.CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.current()
}

// current promotes an expired open state to half-open. Callers hold mu.
func (cb *CircuitBreaker) current() models.CircuitBreakerState {
	if cb.state == models.BreakerOpen && cb.now().Sub(cb.openedAt) >= cb.config.ResetTimeout {
		cb.moveTo(models.BreakerHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) moveTo(state models.CircuitBreakerState) {
	cb.state = state
	cb.failures = 0
	cb.successes = 0
	if state == models.BreakerOpen {
		cb.openedAt = cb.now()
	}
}
