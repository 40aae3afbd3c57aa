// Package audio synthesizes the metronome click that accompanies each beat.
package audio

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
)

// Click voice
const (
	ClickFrequency = 1000.0
	ClickDuration  = 50 * time.Millisecond
	ClickGain      = 0.1
	clickFade      = 10 * time.Millisecond
)

// Countdown voice: higher pitch, accented on the final tick
const (
	TickFrequency   = 1500.0
	AccentFrequency = 2000.0
	AccentGain      = 0.15
)

// SampleRate used for synthesis and playback
const SampleRate = beep.SampleRate(44100)

// Player accepts finished streamers for output
type Player interface {
	Play(s beep.Streamer)
}

// Metronome turns beats and countdown ticks into short tones
type Metronome struct {
	player Player
	rate   beep.SampleRate
	muted  atomic.Bool
	played atomic.Int64
	volume atomic.Uint64 // float64 bits, 0..1
}

// NewMetronome creates a metronome sending tones to player; nil player stays silent
func NewMetronome(player Player) *Metronome {
	m := &Metronome{player: player, rate: SampleRate}
	m.SetVolume(1)
	return m
}

// SetVolume scales every voice gain; v is clamped to 0..1
func (m *Metronome) SetVolume(v float64) {
	m.volume.Store(math.Float64bits(min(max(v, 0), 1)))
}

// Volume returns the gain scale
func (m *Metronome) Volume() float64 {
	return math.Float64frombits(m.volume.Load())
}

// Mute silences or restores output
func (m *Metronome) Mute(muted bool) {
	m.muted.Store(muted)
}

// Muted reports whether output is silenced
func (m *Metronome) Muted() bool {
	return m.muted.Load()
}

// Played returns how many tones were emitted
func (m *Metronome) Played() int64 {
	return m.played.Load()
}

// Click plays the beat click
func (m *Metronome) Click() {
	m.emit(ClickFrequency, ClickGain, WaveSine)
}

// Tick plays a countdown tick for value n; n == 0 is the accented go signal
func (m *Metronome) Tick(n int) {
	if n <= 0 {
		m.emit(AccentFrequency, AccentGain, WaveSine)
		return
	}
	m.emit(TickFrequency, ClickGain, WaveSine)
}

func (m *Metronome) emit(freq, gain float64, wave Wave) {
	if m.player == nil || m.muted.Load() {
		return
	}
	m.player.Play(Tone(freq, gain*m.Volume(), wave, m.rate))
	m.played.Add(1)
}

// Tone builds a ClickDuration tone with a short release
func Tone(freq, gain float64, wave Wave, rate beep.SampleRate) beep.Streamer {
	osc := NewOscillator(freq, ClickDuration, wave, rate)
	return withGain(NewRelease(osc, ClickDuration, clickFade, rate), gain)
}
