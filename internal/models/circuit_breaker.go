package models

// CircuitBreakerState is the state of a circuit breaker guarding a collaborator.
// The numeric value is exported as the circuit breaker gauge.
type CircuitBreakerState int

const (
	BreakerClosed CircuitBreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s CircuitBreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}
