package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Wave selects the oscillator shape
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
)

// oscillator generates a fixed-length tone
type oscillator struct {
	freq     float64
	phase    float64
	total    int
	position int
	wave     Wave
	rate     beep.SampleRate
}

// NewOscillator creates a tone of freq Hz lasting duration
func NewOscillator(freq float64, duration time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &oscillator{freq: freq, total: rate.N(duration), wave: wave, rate: rate}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	if o.position >= o.total {
		return 0, false
	}
	for i := range samples {
		if o.position >= o.total {
			return i, true
		}

		var v float64
		switch o.wave {
		case WaveSquare:
			v = 1
			if o.phase >= 0.5 {
				v = -1
			}
		default:
			v = math.Sin(2 * math.Pi * o.phase)
		}
		samples[i][0] = v
		samples[i][1] = v

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// release fades the last part of a stream linearly to silence to avoid a pop
type release struct {
	streamer beep.Streamer
	position int
	total    int
	fadeFrom int
}

// NewRelease shapes s so the final fade of its duration ramps to zero
func NewRelease(s beep.Streamer, duration, fade time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	from := total - rate.N(fade)
	if from < 0 {
		from = 0
	}
	return &release{streamer: s, total: total, fadeFrom: from}
}

func (r *release) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = r.streamer.Stream(samples)
	span := r.total - r.fadeFrom
	for i := 0; i < n; i++ {
		if r.position >= r.fadeFrom && span > 0 {
			vol := float64(r.total-r.position) / float64(span)
			if vol < 0 {
				vol = 0
			}
			samples[i][0] *= vol
			samples[i][1] *= vol
		}
		r.position++
	}
	return n, ok
}

func (r *release) Err() error { return r.streamer.Err() }

// withGain scales amplitude linearly; zero mutes
func withGain(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}
