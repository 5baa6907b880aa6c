package audio

import (
	"context"
	"errors"
	"io"
	"log"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
)

// Sink opens the PCM output stream
type Sink func() (io.WriteCloser, error)

// AudioEngine owns the mixer and its output pipe
// Without a usable backend it runs silent instead of failing
type AudioEngine struct {
	config *AudioConfig
	cache  *soundCache
	mixer  *Mixer
	open   Sink
	out    io.WriteCloser

	running    atomic.Bool
	muted      atomic.Bool
	silentMode atomic.Bool

	mu sync.RWMutex // Protects config
	wg sync.WaitGroup
}

// NewAudioEngine creates a stopped engine; open nil pipes into the detected system player
func NewAudioEngine(cfg *AudioConfig, open Sink) *AudioEngine {
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}
	if open == nil {
		open = execSink
	}
	ae := &AudioEngine{
		config: cfg,
		cache:  newSoundCache(beep.SampleRate(cfg.SampleRate)),
		open:   open,
	}
	ae.muted.Store(!cfg.Enabled)
	return ae
}

// Name implements service.Service
func (ae *AudioEngine) Name() string { return "audio" }

// Dependencies implements service.Service
func (ae *AudioEngine) Dependencies() []string { return nil }

// Start opens the sink and launches the mixer
func (ae *AudioEngine) Start(ctx context.Context) error {
	if !ae.running.CompareAndSwap(false, true) {
		return nil
	}

	out, err := ae.open()
	if err != nil {
		log.Printf("audio: %v, running silent", err)
		ae.silentMode.Store(true)
		return nil
	}
	ae.out = out
	ae.cache.preload()

	ae.mixer = NewMixer(out, ae.cache)
	ae.mixer.Start()

	ae.wg.Add(1)
	go ae.monitorMixer()
	return nil
}

// monitorMixer falls back to silent mode when the pipe breaks
func (ae *AudioEngine) monitorMixer() {
	defer ae.wg.Done()
	select {
	case err := <-ae.mixer.Errors():
		log.Printf("audio: %v", err)
		ae.silentMode.Store(true)
	case <-ae.mixer.stopChan:
	}
}

// Stop terminates the mixer and closes the sink
func (ae *AudioEngine) Stop() error {
	if !ae.running.CompareAndSwap(true, false) {
		return nil
	}
	if ae.mixer != nil {
		ae.mixer.Stop()
	}
	ae.wg.Wait()
	if ae.out != nil {
		return ae.out.Close()
	}
	return nil
}

// Play queues a cue; false when muted, silent or saturated
func (ae *AudioEngine) Play(st SoundType) bool {
	if !ae.IsEnabled() || ae.mixer == nil {
		return false
	}
	ae.mu.RLock()
	vol := ae.config.volumeFor(st)
	ae.mu.RUnlock()
	return ae.mixer.Play(st, vol)
}

// ToggleMute toggles mute state, returns true if now audible
func (ae *AudioEngine) ToggleMute() bool {
	muted := !ae.muted.Load()
	ae.muted.Store(muted)
	return !muted
}

// IsMuted returns current mute state
func (ae *AudioEngine) IsMuted() bool {
	return ae.muted.Load()
}

// IsEnabled returns true if running, unmuted and not silent
func (ae *AudioEngine) IsEnabled() bool {
	return ae.running.Load() && !ae.muted.Load() && !ae.silentMode.Load()
}

// IsRunning returns true if started, even in silent mode
func (ae *AudioEngine) IsRunning() bool {
	return ae.running.Load()
}

// SetVolume updates master volume, clamped to [0,1]
func (ae *AudioEngine) SetVolume(vol float64) {
	ae.mu.Lock()
	ae.config.MasterVolume = min(1, max(0, vol))
	ae.mu.Unlock()
}

// Stats returns played and dropped counts
func (ae *AudioEngine) Stats() (played, dropped uint64) {
	if ae.mixer == nil {
		return 0, 0
	}
	return ae.mixer.Stats()
}

// procSink is the stdin of a playback process
type procSink struct {
	io.WriteCloser
	cmd *exec.Cmd
}

func (p *procSink) Close() error {
	err := p.WriteCloser.Close()
	if p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
	p.cmd.Wait()
	return err
}

func execSink() (io.WriteCloser, error) {
	backend, err := DetectBackend()
	if err != nil {
		return nil, err
	}
	cmd := exec.Command(backend.Path, backend.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, errors.Join(ErrNoAudioBackend, err)
	}
	log.Printf("audio: playing through %s", backend.Name)
	return &procSink{WriteCloser: stdin, cmd: cmd}, nil
}
