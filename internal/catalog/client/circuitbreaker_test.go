package client

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker() (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := NewCircuitBreaker("test", DefaultBreakerConfig())
	cb.now = clock.now
	cb.lastStateChange = clock.t
	return cb, clock
}

var errDown = errors.New("down")

func fail() error    { return errDown }
func succeed() error { return nil }

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb, _ := newTestBreaker()

	for i := 0; i < 4; i++ {
		assert.ErrorIs(t, cb.Call(fail), errDown)
	}
	assert.Equal(t, StateClosed, cb.State())

	// a success resets the streak
	require.NoError(t, cb.Call(succeed))
	for i := 0; i < 4; i++ {
		_ = cb.Call(fail)
	}
	assert.Equal(t, StateClosed, cb.State())

	_ = cb.Call(fail)
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Call(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb, clock := newTestBreaker()
	for i := 0; i < 5; i++ {
		_ = cb.Call(fail)
	}
	require.Equal(t, StateOpen, cb.State())

	clock.advance(29 * time.Second)
	assert.ErrorIs(t, cb.Call(succeed), ErrCircuitOpen)

	clock.advance(time.Second)
	require.NoError(t, cb.Call(succeed))
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Call(succeed))
	require.NoError(t, cb.Call(succeed))
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, 0, cb.Stats()["failures"])
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb, clock := newTestBreaker()
	for i := 0; i < 5; i++ {
		_ = cb.Call(fail)
	}

	clock.advance(31 * time.Second)
	require.NoError(t, cb.Call(succeed))
	assert.ErrorIs(t, cb.Call(fail), errDown)
	assert.Equal(t, StateOpen, cb.State())

	// the open timeout restarts from the reopen
	clock.advance(10 * time.Second)
	assert.ErrorIs(t, cb.Call(succeed), ErrCircuitOpen)
}
