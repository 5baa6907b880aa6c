package audio

import "github.com/lixenwraith/bunny-coffee/parameter"

// AudioConfig holds mix levels
type AudioConfig struct {
	Enabled       bool
	MasterVolume  float64
	SampleRate    int
	EffectVolumes map[SoundType]float64
}

// DefaultAudioConfig returns quiet defaults; rejection is the loudest so it is noticed
func DefaultAudioConfig() *AudioConfig {
	return &AudioConfig{
		Enabled:      true,
		MasterVolume: 0.5,
		SampleRate:   parameter.AudioSampleRate,
		EffectVolumes: map[SoundType]float64{
			SoundSale:     0.4,
			SoundLevelUp:  0.6,
			SoundReject:   0.7,
			SoundPurchase: 0.5,
		},
	}
}

// volumeFor combines master and per-cue levels
func (c *AudioConfig) volumeFor(st SoundType) float64 {
	vol := c.MasterVolume
	if ev, ok := c.EffectVolumes[st]; ok {
		vol *= ev
	}
	return vol
}
