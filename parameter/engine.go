package parameter

import "time"

// Game Loop & Engine Timing
const (
	// FrameUpdateInterval is the dashboard redraw interval (~30 FPS)
	FrameUpdateInterval = 33 * time.Millisecond

	// GameUpdateInterval is the wall-clock interval of the clock scheduler
	GameUpdateInterval = 50 * time.Millisecond

	// ProcessEvery is the accumulated game time required before the world runs a tick
	// Sub-threshold deltas are batched into the next tick
	ProcessEvery = 100 * time.Millisecond

	// MetricsEveryTicks is how often the scheduler publishes slow-moving metrics
	MetricsEveryTicks = 20
)

// Event Queue
const (
	// EventQueueSize is the fixed capacity of the event ring buffer
	EventQueueSize = 2048

	// EventBufferMask is the bitmask for fast modulo operations (2048 - 1)
	EventBufferMask = 2047
)

// Persistence
const (
	// SaveDataKey is the version-tagged preference key of the persisted game state
	// Schema changes bump the suffix instead of migrating old records
	SaveDataKey = "game.saveData.v3"

	// StoreTimeout bounds a single store round trip
	StoreTimeout = 2 * time.Second
)
