// Package audio turns shop events into short synthesized cues
// Samples are rendered with beep and piped as raw PCM to whatever playback tool the system has
package audio

import "errors"

// SoundType identifies a cue
type SoundType int

const (
	SoundSale     SoundType = iota // Order paid
	SoundLevelUp                   // Station upgraded
	SoundReject                    // Purchase refused
	SoundPurchase                  // Hire, station or decoration bought
	soundTypeCount
)

func (s SoundType) String() string {
	switch s {
	case SoundSale:
		return "sale"
	case SoundLevelUp:
		return "levelup"
	case SoundReject:
		return "reject"
	case SoundPurchase:
		return "purchase"
	default:
		return "unknown"
	}
}

// BackendType identifies the audio backend
type BackendType int

const (
	BackendPulse BackendType = iota
	BackendPipeWire
	BackendALSA
	BackendSoX
)

// BackendConfig describes a CLI audio backend
type BackendConfig struct {
	Type BackendType
	Name string
	Path string
	Args []string
}

// Sentinel errors
var (
	ErrNoAudioBackend = errors.New("no compatible audio backend found")
	ErrPipeClosed     = errors.New("audio pipe closed")
)
