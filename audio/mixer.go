package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/bunny-coffee/core"
	"github.com/lixenwraith/bunny-coffee/parameter"
)

// activeSound tracks a playing cue
type activeSound struct {
	buffer floatBuffer
	pos    int
	volume float64
}

type playRequest struct {
	sound  SoundType
	volume float64
}

// Mixer sums active cues and writes interleaved s16le frames every buffer period
type Mixer struct {
	output io.Writer
	cache  *soundCache
	period time.Duration

	playQueue chan playRequest
	stopChan  chan struct{}
	stopped   atomic.Bool
	wg        sync.WaitGroup

	// Accessed only by the mix goroutine
	active []activeSound

	played  atomic.Uint64
	dropped atomic.Uint64

	errChan chan error
}

// NewMixer creates a mixer writing to out
func NewMixer(out io.Writer, cache *soundCache) *Mixer {
	return &Mixer{
		output:    out,
		cache:     cache,
		period:    parameter.AudioBufferDuration,
		playQueue: make(chan playRequest, parameter.AudioQueueSize),
		stopChan:  make(chan struct{}),
		active:    make([]activeSound, 0, 8),
		errChan:   make(chan error, 1),
	}
}

// Start begins the mixing loop
func (m *Mixer) Start() {
	m.wg.Add(1)
	core.Go(func() {
		defer m.wg.Done()
		m.loop()
	})
}

// Stop halts the loop and waits for it
func (m *Mixer) Stop() {
	if m.stopped.CompareAndSwap(false, true) {
		close(m.stopChan)
	}
	m.wg.Wait()
}

// Play queues a cue; a full queue drops it
func (m *Mixer) Play(st SoundType, volume float64) bool {
	if m.stopped.Load() {
		return false
	}
	select {
	case m.playQueue <- playRequest{sound: st, volume: volume}:
		return true
	default:
		m.dropped.Add(1)
		return false
	}
}

// Errors reports the first write failure
func (m *Mixer) Errors() <-chan error {
	return m.errChan
}

// Stats returns played and dropped counts
func (m *Mixer) Stats() (played, dropped uint64) {
	return m.played.Load(), m.dropped.Load()
}

func (m *Mixer) loop() {
	ticker := time.NewTicker(m.period)
	defer ticker.Stop()

	mixBuf := make([]float64, parameter.AudioBufferSamples)
	outBytes := make([]byte, parameter.AudioBufferSamples*parameter.AudioBytesPerFrame)

	for {
		select {
		case <-m.stopChan:
			return

		case req := <-m.playQueue:
			m.activate(req)

		case <-ticker.C:
			if err := m.writeFrame(mixBuf, outBytes); err != nil {
				select {
				case m.errChan <- fmt.Errorf("%w: %v", ErrPipeClosed, err):
				default:
				}
				return
			}
		}
	}
}

func (m *Mixer) activate(req playRequest) {
	buf := m.cache.get(req.sound)
	if len(buf) == 0 {
		return
	}
	m.active = append(m.active, activeSound{buffer: buf, volume: req.volume})
	m.played.Add(1)
}

// writeFrame mixes one buffer period; silence keeps the pipe alive
func (m *Mixer) writeFrame(mixBuf []float64, out []byte) error {
	clear(mixBuf)
	m.active = mixActive(m.active, mixBuf)
	floatToBytes(mixBuf, out)
	_, err := m.output.Write(out)
	return err
}

// mixActive adds every active cue into buf and returns the ones still playing
func mixActive(active []activeSound, buf []float64) []activeSound {
	remaining := active[:0]
	for i := range active {
		s := &active[i]
		for j := 0; j < len(buf) && s.pos < len(s.buffer); j++ {
			buf[j] += s.buffer[s.pos] * s.volume
			s.pos++
		}
		if s.pos < len(s.buffer) {
			remaining = append(remaining, *s)
		}
	}
	return remaining
}

// floatToBytes converts mono floats to interleaved stereo int16 LE with a soft knee above 0.8
func floatToBytes(in []float64, out []byte) {
	for i, v := range in {
		if v > 0.8 {
			v = 0.8 + 0.2*(1.0-1.0/(1.0+(v-0.8)*5.0))
		} else if v < -0.8 {
			v = -0.8 - 0.2*(1.0-1.0/(1.0+(-v-0.8)*5.0))
		}
		v = min(1.0, max(-1.0, v))

		i16 := int16(v * 32767)
		idx := i * parameter.AudioBytesPerFrame
		binary.LittleEndian.PutUint16(out[idx:], uint16(i16))   // L
		binary.LittleEndian.PutUint16(out[idx+2:], uint16(i16)) // R
	}
}
