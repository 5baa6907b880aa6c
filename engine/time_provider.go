package engine

import "time"

// TimeProvider is the real time source behind a PausableClock
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider reads the system clock, monotonic reading included
type MonotonicTimeProvider struct{}

// NewMonotonicTimeProvider creates a system time provider
func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{}
}

// Now returns time.Now
func (p *MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}
