package circuitbreaker

import (
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Config maps onto gobreaker.Settings and shares its zero value defaults.
type Config struct {
	Name    string
	Enabled bool

	// MaxRequests bounds the half-open probes.
	MaxRequests uint
	// Interval resets the closed state counts. Zero never resets them.
	Interval time.Duration
	// Timeout is how long the breaker stays open.
	Timeout time.Duration

	// FailureThreshold consecutive failures open the breaker.
	FailureThreshold uint

	// Ignore marks errors that leave the counts alone, e.g. invalid input.
	Ignore func(err error) bool

	OnStateChange func(name, from, to string)
}

// CircuitBreaker guards calls to a downstream dependency such as the
// database and fails fast while the dependency keeps failing.
type CircuitBreaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// New creates a circuit breaker, or nil when cfg disables it. A nil breaker
// is valid and lets every call through.
func New[T any](cfg Config) *CircuitBreaker[T] {
	if !cfg.Enabled {
		return nil
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: uint32(cfg.MaxRequests),
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(cfg.FailureThreshold)
		},
	}

	if cfg.Ignore != nil {
		settings.IsSuccessful = func(err error) bool {
			return err == nil || cfg.Ignore(err)
		}
	}

	if cfg.OnStateChange != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			cfg.OnStateChange(name, from.String(), to.String())
		}
	}

	return &CircuitBreaker[T]{cb: gobreaker.NewCircuitBreaker[T](settings)}
}

func (c *CircuitBreaker[T]) Name() string {
	if c == nil {
		return ""
	}

	return c.cb.Name()
}

// State returns "closed", "half-open" or "open".
func (c *CircuitBreaker[T]) State() string {
	if c == nil {
		return gobreaker.StateClosed.String()
	}

	return c.cb.State().String()
}

// Execute runs fn through cb. It returns ErrCircuitOpen while the breaker is
// open and ErrTooManyRequests when a half-open breaker has no probe slot left.
func Execute[T any](cb *CircuitBreaker[T], fn func() (T, error)) (T, error) {
	if cb == nil {
		return fn()
	}

	result, err := cb.cb.Execute(fn)

	switch {
	case errors.Is(err, gobreaker.ErrOpenState):
		var zero T

		return zero, ErrCircuitOpen
	case errors.Is(err, gobreaker.ErrTooManyRequests):
		var zero T

		return zero, ErrTooManyRequests
	}

	return result, err
}
