package engine

import (
	"time"

	"github.com/lixenwraith/fingerpath/effect"
	"github.com/lixenwraith/fingerpath/path"
	"github.com/lixenwraith/fingerpath/render"
	"github.com/lixenwraith/fingerpath/tempo"
)

// Frame is an immutable draw-ready copy of the driver state
type Frame struct {
	At    time.Time `json:"at"`
	RunID string    `json:"run_id"`
	State State     `json:"state"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	BallX        float64    `json:"ball_x"`
	BallY        float64    `json:"ball_y"`
	Radius       float64    `json:"radius"`
	PulsedRadius float64    `json:"pulsed_radius"`
	BallVisible  bool       `json:"ball_visible"`
	Color        render.RGB `json:"color"`
	Glow         float64    `json:"glow"`

	Counting  bool `json:"counting"`
	Countdown int  `json:"countdown"`

	Finger     int     `json:"finger"`
	NumFingers int     `json:"num_fingers"`
	TempoBPM   float64 `json:"tempo_bpm"`
	Speed      float64 `json:"speed"`

	// Shared read-only with the driver
	Path *path.Path  `json:"-"`
	Sky  *effect.Sky `json:"-"`
}

// Snapshot captures the current state; the color is read without advancing the schedule
func (d *Driver) Snapshot() Frame {
	now := d.clock.Now()
	interval := d.color.BeatInterval()
	finger, _ := d.color.Current()

	f := Frame{
		At:          now,
		RunID:       d.runID.String(),
		State:       d.state,
		Width:       d.settings.Width,
		Height:      d.settings.Height,
		BallX:       d.ballX,
		BallY:       d.ballY,
		Radius:      d.radius,
		BallVisible: d.visible && d.state != StateCountdown,
		Color:       d.current,
		Glow:        d.glow.Intensity(),
		Counting:    d.state == StateCountdown,
		Countdown:   d.countdown,
		Finger:      finger,
		NumFingers:  d.settings.NumFingers,
		TempoBPM:    d.settings.TempoBPM,
		Speed:       d.settings.Speed,
		Path:        d.path,
		Sky:         d.sky.Clone(),
	}
	f.PulsedRadius = tempo.PulsedRadius(d.radius, tempo.Pulse(now, interval))
	return f
}

// DisplayColor is the ball color with the change highlight applied
func (f Frame) DisplayColor() render.RGB {
	if f.Glow <= 0 {
		return f.Color
	}
	return f.Color.Brighten(f.Glow * 0.5)
}
