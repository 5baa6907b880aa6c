package audio

import (
	"context"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// SpeakerPlayer plays cues through the beep speaker device instead of a pipe
// Only one speaker may be initialised per process
type SpeakerPlayer struct {
	config *AudioConfig
	rate   beep.SampleRate

	mu      sync.Mutex
	running bool
}

// NewSpeakerPlayer creates a stopped player
func NewSpeakerPlayer(cfg *AudioConfig) *SpeakerPlayer {
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}
	return &SpeakerPlayer{config: cfg, rate: beep.SampleRate(cfg.SampleRate)}
}

// Name implements service.Service
func (p *SpeakerPlayer) Name() string { return "audio" }

// Dependencies implements service.Service
func (p *SpeakerPlayer) Dependencies() []string { return nil }

// Start opens the output device with a 100ms buffer
func (p *SpeakerPlayer) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(time.Second/10)); err != nil {
		return err
	}
	p.running = true
	return nil
}

// Stop closes the device
func (p *SpeakerPlayer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return nil
	}
	p.running = false
	speaker.Close()
	return nil
}

// Play implements Player
func (p *SpeakerPlayer) Play(st SoundType) bool {
	p.mu.Lock()
	running := p.running
	p.mu.Unlock()
	if !running || !p.config.Enabled {
		return false
	}

	s := GetSoundEffect(st, p.rate)
	if s == nil {
		return false
	}
	speaker.Play(newVolume(s, p.config.volumeFor(st)))
	return true
}
