package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// PausableClock is game time: real time minus every paused interval
type PausableClock struct {
	mu sync.RWMutex

	real TimeProvider

	realStart  time.Time
	pauseStart time.Time
	paused     time.Duration // cumulative

	isPaused atomic.Bool
}

// NewPausableClock creates a clock over real; nil uses the system clock
func NewPausableClock(real TimeProvider) *PausableClock {
	if real == nil {
		real = NewMonotonicTimeProvider()
	}
	return &PausableClock{
		real:      real,
		realStart: real.Now(),
	}
}

// Now returns game time, frozen while paused
func (pc *PausableClock) Now() time.Time {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	if pc.isPaused.Load() {
		return pc.realStart.Add(pc.pauseStart.Sub(pc.realStart) - pc.paused)
	}
	return pc.realStart.Add(pc.real.Now().Sub(pc.realStart) - pc.paused)
}

// RealTime returns the underlying provider time
func (pc *PausableClock) RealTime() time.Time {
	return pc.real.Now()
}

// Pause freezes game time
func (pc *PausableClock) Pause() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.isPaused.CompareAndSwap(false, true) {
		pc.pauseStart = pc.real.Now()
	}
}

// Resume continues game time from where it froze
func (pc *PausableClock) Resume() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.isPaused.CompareAndSwap(true, false) {
		pc.paused += pc.real.Now().Sub(pc.pauseStart)
		pc.pauseStart = time.Time{}
	}
}

// IsPaused returns the pause state
func (pc *PausableClock) IsPaused() bool {
	return pc.isPaused.Load()
}

// TotalPauseDuration returns cumulative pause time including a pause in progress
func (pc *PausableClock) TotalPauseDuration() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	total := pc.paused
	if pc.isPaused.Load() && !pc.pauseStart.IsZero() {
		total += pc.real.Now().Sub(pc.pauseStart)
	}
	return total
}
