package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// ErrServiceUnavailable is the transient failure of the simulated backend.
var ErrServiceUnavailable = errors.New("server temporarily unavailable")

// SimulatedBackend stands in for a remote API call that gates mutations.
type SimulatedBackend interface {
	Call(ctx context.Context) error
}

// BackendFunc adapts a function to SimulatedBackend.
type BackendFunc func(ctx context.Context) error

func (f BackendFunc) Call(ctx context.Context) error { return f(ctx) }

// MockBackend waits Delay and then fails with probability FailureRate.
// The coin flip uses math/rand; it models availability, not secrets.
type MockBackend struct {
	Delay       time.Duration
	FailureRate float64
}

// NewMockBackend creates a MockBackend.
func NewMockBackend(delay time.Duration, failureRate float64) *MockBackend {
	return &MockBackend{Delay: delay, FailureRate: failureRate}
}

// Call blocks for the configured delay or until ctx is done.
func (b *MockBackend) Call(ctx context.Context) error {
	timer := time.NewTimer(b.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	if rand.Float64() < b.FailureRate {
		return ErrServiceUnavailable
	}
	return nil
}
