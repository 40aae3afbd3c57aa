// Package tempo converts beats per minute into finger changes and a beat-locked pulse.
package tempo

import (
	"math"
	"time"

	"github.com/lixenwraith/fingerpath/vmath"
)

// DefaultInterval substitutes for a non-positive or non-finite tempo
const DefaultInterval = time.Minute

// MaxFingers is the largest supported finger count
const MaxFingers = 4

// PulseMagnitude scales the ball radius at peak pulse
const PulseMagnitude = 0.15

// Interval converts BPM to the duration of one beat
func Interval(bpm float64) time.Duration {
	if bpm <= 0 || !vmath.Finite(bpm) {
		return DefaultInterval
	}
	d := time.Duration(float64(time.Minute) / bpm)
	if d <= 0 {
		return DefaultInterval
	}
	return d
}

// Phase returns the position of now within the current beat, in [0, 1)
func Phase(now time.Time, interval time.Duration) float64 {
	if interval <= 0 {
		return 0
	}
	r := now.UnixNano() % int64(interval)
	if r < 0 {
		r += int64(interval)
	}
	return float64(r) / float64(interval)
}

// Pulse maps beat phase to [0, 1] along a sine: 0.5 at phase 0, peak at 0.25, trough at 0.75
func Pulse(now time.Time, interval time.Duration) float64 {
	return (math.Sin(Phase(now, interval)*2*math.Pi) + 1) / 2
}

// PulsedRadius scales base by the pulse amount
func PulsedRadius(base, pulse float64) float64 {
	return base * (1 + PulseMagnitude*pulse)
}
