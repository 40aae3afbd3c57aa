package server

import (
	"github.com/lixenwraith/fingerpath/engine"
	"github.com/lixenwraith/fingerpath/path"
)

// Outbound message types
const (
	TypeFrame = "frame"
	TypePath  = "path"
	TypeAck   = "ack"
	TypeError = "error"
)

// Control actions
const (
	ActionStartFlat      = "start_flat"
	ActionStartMountains = "start_mountains"
	ActionReset          = "reset"
	ActionStop           = "stop"
	ActionTempo          = "tempo"
	ActionSpeed          = "speed"
	ActionFingers        = "fingers"
	ActionColors         = "colors"
	ActionMountains      = "mountains"
	ActionResize         = "resize"
	ActionLesson         = "lesson"
)

// Control is a client request; fields are read per action
type Control struct {
	Action   string   `json:"action"`
	Value    float64  `json:"value,omitempty"`
	Count    int      `json:"count,omitempty"`
	Plateaus bool     `json:"plateaus,omitempty"`
	Colors   []string `json:"colors,omitempty"`
	Width    float64  `json:"width,omitempty"`
	Height   float64  `json:"height,omitempty"`
	Lesson   string   `json:"lesson,omitempty"`
}

type Message struct {
	Type   string        `json:"type"`
	Frame  *engine.Frame `json:"frame,omitempty"`
	Path   *PathMessage  `json:"path,omitempty"`
	Action string        `json:"action,omitempty"`
	Error  string        `json:"error,omitempty"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Curve struct {
	P0 Point `json:"p0"`
	P1 Point `json:"p1"`
	P2 Point `json:"p2"`
}

type PathMessage struct {
	Kind     path.Kind `json:"kind"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Points   []Point   `json:"points"`
	Curves   []Curve   `json:"curves"`
	Polyline []Point   `json:"polyline"`
}

// polylineTolerance is the flattening error in canvas pixels
const polylineTolerance = 0.5

func toPoint(p path.Point) Point { return Point{X: p.X, Y: p.Y} }

func newPathMessage(p *path.Path) *PathMessage {
	m := &PathMessage{
		Kind:   p.Kind,
		Width:  p.Width,
		Height: p.Height,
		Points: make([]Point, len(p.Points)),
		Curves: make([]Curve, len(p.Curves)),
	}
	for i, pt := range p.Points {
		m.Points[i] = toPoint(pt)
	}
	for i, c := range p.Curves {
		m.Curves[i] = Curve{P0: toPoint(c.P0), P1: toPoint(c.P1), P2: toPoint(c.P2)}
	}
	for _, pt := range p.Polyline(polylineTolerance) {
		m.Polyline = append(m.Polyline, toPoint(pt))
	}
	return m
}
