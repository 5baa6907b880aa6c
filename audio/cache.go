package audio

import (
	"sync"

	"github.com/gopxl/beep"
)

// soundCache renders each cue once at unity gain
type soundCache struct {
	mu    sync.Mutex
	rate  beep.SampleRate
	store [soundTypeCount]floatBuffer
}

func newSoundCache(rate beep.SampleRate) *soundCache {
	return &soundCache{rate: rate}
}

// get returns the cached buffer, rendering on first use
func (c *soundCache) get(st SoundType) floatBuffer {
	if st < 0 || st >= soundTypeCount {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store[st] == nil {
		c.store[st] = render(GetSoundEffect(st, c.rate))
	}
	return c.store[st]
}

// preload renders every cue so the first sale does not stall the mixer
func (c *soundCache) preload() {
	for st := SoundType(0); st < soundTypeCount; st++ {
		c.get(st)
	}
}
