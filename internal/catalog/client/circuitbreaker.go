package client

import (
	"errors"
	"sync"
	"time"

	"github.com/tair/storefront/pkg/logger"
)

// ErrCircuitOpen is returned by Call while the breaker is open
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitState represents the state of a circuit breaker
type CircuitState string

const (
	StateClosed   CircuitState = "closed"    // Normal operation
	StateOpen     CircuitState = "open"      // Blocking requests
	StateHalfOpen CircuitState = "half-open" // Testing if service recovered
)

// BreakerConfig holds circuit breaker thresholds
type BreakerConfig struct {
	MaxFailures       int           // consecutive failures before opening
	OpenTimeout       time.Duration // time spent open before probing
	HalfOpenSuccesses int           // successes in half-open before closing
}

// DefaultBreakerConfig returns default circuit breaker thresholds
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures:       5,
		OpenTimeout:       30 * time.Second,
		HalfOpenSuccesses: 3,
	}
}

// CircuitBreaker implements the circuit breaker pattern
type CircuitBreaker struct {
	name   string
	config BreakerConfig
	now    func() time.Time

	state           CircuitState
	failures        int
	successCount    int
	lastFailureTime time.Time
	lastStateChange time.Time
	mu              sync.Mutex
}

// NewCircuitBreaker creates a new circuit breaker
func NewCircuitBreaker(name string, config BreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		name:            name,
		config:          config,
		now:             time.Now,
		state:           StateClosed,
		lastStateChange: time.Now(),
	}
}

// Call executes fn with circuit breaker protection. A non-nil error from fn
// counts as a failure.
func (cb *CircuitBreaker) Call(fn func() error) error {
	cb.mu.Lock()
	if cb.state == StateOpen && cb.now().Sub(cb.lastStateChange) >= cb.config.OpenTimeout {
		cb.setState(StateHalfOpen)
		logger.Logger.Info().
			Str("circuit", cb.name).
			Msg("Circuit breaker transitioning to half-open")
	}
	currentState := cb.state
	cb.mu.Unlock()

	if currentState == StateOpen {
		return ErrCircuitOpen
	}

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.onFailure()
	} else {
		cb.onSuccess()
	}

	return err
}

func (cb *CircuitBreaker) setState(state CircuitState) {
	cb.state = state
	cb.successCount = 0
	cb.lastStateChange = cb.now()
}

func (cb *CircuitBreaker) onFailure() {
	cb.failures++
	cb.lastFailureTime = cb.now()

	if cb.state == StateHalfOpen {
		// Any failure in half-open state reopens the circuit
		cb.setState(StateOpen)
		logger.Logger.Warn().
			Str("circuit", cb.name).
			Msg("Circuit breaker reopened after half-open failure")
	} else if cb.state == StateClosed && cb.failures >= cb.config.MaxFailures {
		cb.setState(StateOpen)
		logger.Logger.Error().
			Str("circuit", cb.name).
			Int("failures", cb.failures).
			Int("threshold", cb.config.MaxFailures).
			Msg("Circuit breaker opened")
	}
}

func (cb *CircuitBreaker) onSuccess() {
	switch cb.state {
	case StateHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.config.HalfOpenSuccesses {
			cb.failures = 0
			cb.setState(StateClosed)
			logger.Logger.Info().
				Str("circuit", cb.name).
				Msg("Circuit breaker closed after successful recovery")
		}
	case StateClosed:
		cb.failures = 0
	}
}

// State returns the current state
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Stats returns circuit breaker statistics
func (cb *CircuitBreaker) Stats() map[string]interface{} {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return map[string]interface{}{
		"name":              cb.name,
		"state":             cb.state,
		"failures":          cb.failures,
		"max_failures":      cb.config.MaxFailures,
		"last_failure_time": cb.lastFailureTime,
		"last_state_change": cb.lastStateChange,
		"time_since_change": cb.now().Sub(cb.lastStateChange).Seconds(),
	}
}
