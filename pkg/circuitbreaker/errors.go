package circuitbreaker

import "errors"

var (
	// ErrCircuitOpen is returned without calling the guarded function while
	// the dependency is considered down.
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrTooManyRequests is returned while a half-open breaker already runs
	// its allowed probes.
	ErrTooManyRequests = errors.New("circuit breaker is probing")
)
