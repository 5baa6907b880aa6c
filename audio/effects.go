package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/lixenwraith/bunny-coffee/parameter"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator streams a fixed-length raw wave
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a streamer of duration at freq
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			val = -1.0
			if o.phase < 0.5 {
				val = 1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and release to a stream
type envelope struct {
	streamer     beep.Streamer
	position     int
	attack       int
	releaseStart int
	release      int
	total        int
}

// NewEnvelope shapes s over duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	return &envelope{
		streamer:     s,
		attack:       att,
		release:      rel,
		releaseStart: max(att, total-rel),
		total:        total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}

		vol := 1.0
		switch {
		case e.position < e.attack:
			vol = float64(e.position) / float64(e.attack)
		case e.position >= e.releaseStart && e.release > 0:
			vol = max(0, float64(e.total-e.position)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales linearly; beep's Volume works in log2 so zero becomes Silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// CreateSaleSound is a rising two-note chime played when an order is paid
func CreateSaleSound(rate beep.SampleRate) beep.Streamer {
	// B5 then E6
	n1 := NewEnvelope(NewOscillator(987.77, parameter.SaleNoteDuration, WaveSquare, rate),
		parameter.SaleNoteDuration, parameter.SaleAttack, parameter.SaleNoteRelease, rate)
	n2 := NewEnvelope(NewOscillator(1318.51, parameter.SaleTailDuration, WaveSquare, rate),
		parameter.SaleTailDuration, parameter.SaleAttack, parameter.SaleTailRelease, rate)
	return newVolume(beep.Seq(n1, n2), 0.5)
}

// CreateLevelUpSound is a bell with an octave overtone
func CreateLevelUpSound(rate beep.SampleRate) beep.Streamer {
	n := rate.N(parameter.LevelUpDuration)
	fundTone, err := generators.SineTone(rate, 880.0)
	if err != nil {
		// SineTone rejects tones above half the sample rate
		fundTone = NewOscillator(880.0, parameter.LevelUpDuration, WaveSine, rate)
	}
	overTone, err := generators.SineTone(rate, 1760.0)
	if err != nil {
		overTone = NewOscillator(1760.0, parameter.LevelUpDuration, WaveSine, rate)
	}

	fund := NewEnvelope(beep.Take(n, fundTone),
		parameter.LevelUpDuration, parameter.LevelUpAttack, parameter.LevelUpRelease, rate)
	over := NewEnvelope(beep.Take(n, overTone),
		parameter.LevelUpDuration, parameter.LevelUpAttack, parameter.LevelUpRelease/2, rate)
	return beep.Mix(newVolume(fund, 0.7), newVolume(over, 0.3))
}

// CreateRejectSound is a low saw buzz
func CreateRejectSound(rate beep.SampleRate) beep.Streamer {
	osc := NewOscillator(100.0, parameter.RejectDuration, WaveSaw, rate)
	return NewEnvelope(osc, parameter.RejectDuration, parameter.RejectAttack, parameter.RejectRelease, rate)
}

// CreatePurchaseSound is a short noise swell
func CreatePurchaseSound(rate beep.SampleRate) beep.Streamer {
	noise := NewOscillator(0, parameter.PurchaseDuration, WaveNoise, rate)
	shaped := NewEnvelope(noise, parameter.PurchaseDuration, parameter.PurchaseAttack, parameter.PurchaseRelease, rate)
	return newVolume(shaped, 0.6)
}

// GetSoundEffect returns a fresh streamer for st, nil when unknown
func GetSoundEffect(st SoundType, rate beep.SampleRate) beep.Streamer {
	switch st {
	case SoundSale:
		return CreateSaleSound(rate)
	case SoundLevelUp:
		return CreateLevelUpSound(rate)
	case SoundReject:
		return CreateRejectSound(rate)
	case SoundPurchase:
		return CreatePurchaseSound(rate)
	default:
		return nil
	}
}

// floatBuffer is mono float64 samples at unity gain
type floatBuffer []float64

// render drains s into a mono buffer
func render(s beep.Streamer) floatBuffer {
	if s == nil {
		return nil
	}
	var out floatBuffer
	chunk := make([][2]float64, 512)
	for {
		n, ok := s.Stream(chunk)
		for i := 0; i < n; i++ {
			out = append(out, (chunk[i][0]+chunk[i][1])/2)
		}
		if !ok {
			return out
		}
	}
}
