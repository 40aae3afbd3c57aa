package engine

import (
	"github.com/lixenwraith/fingerpath/path"
	"github.com/lixenwraith/fingerpath/render"
	"github.com/lixenwraith/fingerpath/tempo"
)

// Canvas defaults and limits
const (
	DefaultWidth    = 1000.0
	DefaultHeight   = 400.0
	MinCanvasHeight = 150.0
)

// Settings is the control surface the UI feeds the driver
type Settings struct {
	Width           float64   `json:"width" yaml:"width"`
	Height          float64   `json:"height" yaml:"height"`
	Speed           float64   `json:"speed" yaml:"speed"`
	NumMountains    int       `json:"num_mountains" yaml:"num_mountains"`
	IncludePlateaus bool      `json:"include_plateaus" yaml:"include_plateaus"`
	NumFingers      int       `json:"num_fingers" yaml:"num_fingers"`
	TempoBPM        float64   `json:"tempo_bpm" yaml:"tempo_bpm"`
	FingerColors    []string  `json:"finger_colors" yaml:"finger_colors"`
	PathKind        path.Kind `json:"path_kind" yaml:"path_kind"`
}

// DefaultSettings matches the stock control values
func DefaultSettings() Settings {
	colors := make([]string, len(render.DefaultFingerColors))
	copy(colors, render.DefaultFingerColors)
	return Settings{
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		Speed:        1.0,
		NumMountains: 1,
		NumFingers:   1,
		TempoBPM:     40,
		FingerColors: colors,
		PathKind:     path.KindFlat,
	}
}

// Normalized replaces out-of-range values with usable ones
func (s Settings) Normalized() Settings {
	d := DefaultSettings()
	if s.Width <= 0 {
		s.Width = d.Width
	}
	if s.Height <= 0 {
		s.Height = d.Height
	}
	if s.Height < MinCanvasHeight {
		s.Height = MinCanvasHeight
	}
	if s.Speed <= 0 {
		s.Speed = d.Speed
	}
	if s.NumMountains < 1 {
		s.NumMountains = 1
	}
	if s.NumFingers < 1 {
		s.NumFingers = 1
	}
	if s.NumFingers > tempo.MaxFingers {
		s.NumFingers = tempo.MaxFingers
	}
	if s.TempoBPM <= 0 {
		s.TempoBPM = d.TempoBPM
	}
	if len(s.FingerColors) == 0 {
		s.FingerColors = d.FingerColors
	}
	return s
}

// BallRadius is 5% of the smaller canvas dimension
func (s Settings) BallRadius() float64 {
	return min(s.Width, s.Height) * BallRadiusFactor
}
