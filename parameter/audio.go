package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate    = 44100
	AudioChannels      = 2
	AudioBitDepth      = 16
	AudioBytesPerFrame = AudioChannels * (AudioBitDepth / 8) // 4 bytes
)

// Audio Engine Timing
const (
	// AudioBufferDuration determines latency and mixer tick rate
	AudioBufferDuration = 50 * time.Millisecond

	// AudioBufferSamples is frames per mixer tick at 44.1kHz
	AudioBufferSamples = (AudioSampleRate * 50) / 1000 // 2205

	// AudioQueueSize bounds pending cue requests before drops
	AudioQueueSize = 32
)

// Cue Shapes
const (
	SaleNoteDuration = 70 * time.Millisecond
	SaleTailDuration = 220 * time.Millisecond
	SaleAttack       = 5 * time.Millisecond
	SaleNoteRelease  = 30 * time.Millisecond
	SaleTailRelease  = 180 * time.Millisecond
	LevelUpDuration  = 600 * time.Millisecond
	LevelUpAttack    = 5 * time.Millisecond
	LevelUpRelease   = 500 * time.Millisecond
	RejectDuration   = 120 * time.Millisecond
	RejectAttack     = 5 * time.Millisecond
	RejectRelease    = 40 * time.Millisecond
	PurchaseDuration = 180 * time.Millisecond
	PurchaseAttack   = 40 * time.Millisecond
	PurchaseRelease  = 120 * time.Millisecond
)

