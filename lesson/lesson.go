// Package lesson holds preset practice configurations grouped into learning paths.
package lesson

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/fingerpath/engine"
	"github.com/lixenwraith/fingerpath/path"
	"github.com/lixenwraith/fingerpath/render"
	"github.com/lixenwraith/fingerpath/tempo"
)

var (
	ErrNotFound = errors.New("lesson not found")
	ErrInvalid  = errors.New("invalid lesson")
)

// Settings are the control values a lesson applies
type Settings struct {
	Speed           float64  `yaml:"speed"`
	NumMountains    int      `yaml:"num_mountains"`
	IncludePlateaus bool     `yaml:"include_plateaus"`
	NumFingers      int      `yaml:"num_fingers"`
	ColorTempo      float64  `yaml:"color_tempo"`
	FingerColors    []string `yaml:"finger_colors"`
}

// Lesson is one preset
type Lesson struct {
	ID       string    `yaml:"id"`
	Name     string    `yaml:"name"`
	PathType path.Kind `yaml:"path_type"`
	Settings Settings  `yaml:"settings"`

	// Set while loading
	ParentID int `yaml:"-"`
}

// Group is a learning path of lessons
type Group struct {
	ParentID int      `yaml:"parent_id"`
	Name     string   `yaml:"name"`
	Lessons  []Lesson `yaml:"lessons"`
}

// Catalog is the full set of groups with id lookup
type Catalog struct {
	Groups []Group `yaml:"groups"`

	byID  map[string]*Lesson
	order []string
}

// Validate checks a lesson can drive the engine
func (l Lesson) Validate() error {
	s := l.Settings
	switch {
	case l.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalid)
	case s.NumFingers < 1 || s.NumFingers > tempo.MaxFingers:
		return fmt.Errorf("%w: %s: num_fingers %d outside 1..%d", ErrInvalid, l.ID, s.NumFingers, tempo.MaxFingers)
	case len(s.FingerColors) < s.NumFingers:
		return fmt.Errorf("%w: %s: %d colors for %d fingers", ErrInvalid, l.ID, len(s.FingerColors), s.NumFingers)
	case s.Speed <= 0:
		return fmt.Errorf("%w: %s: speed must be positive", ErrInvalid, l.ID)
	case s.ColorTempo <= 0:
		return fmt.Errorf("%w: %s: color_tempo must be positive", ErrInvalid, l.ID)
	}
	for i, c := range s.FingerColors {
		if _, err := render.ParseHex(render.ResolveHex(c)); err != nil {
			return fmt.Errorf("%w: %s: color %d: %v", ErrInvalid, l.ID, i, err)
		}
	}
	return nil
}

// HexColors resolves palette names to hex strings
func (l Lesson) HexColors() []string {
	out := make([]string, len(l.Settings.FingerColors))
	for i, c := range l.Settings.FingerColors {
		out[i] = render.ResolveHex(c)
	}
	return out
}

// Apply overlays the lesson onto base, keeping the canvas size
func (l Lesson) Apply(base engine.Settings) engine.Settings {
	s := l.Settings
	base.Speed = s.Speed
	base.NumMountains = s.NumMountains
	base.IncludePlateaus = s.IncludePlateaus
	base.NumFingers = s.NumFingers
	base.TempoBPM = s.ColorTempo
	base.FingerColors = l.HexColors()
	base.PathKind = l.PathType
	return base.Normalized()
}

// index validates every lesson and builds the lookup table
func (c *Catalog) index() error {
	c.byID = make(map[string]*Lesson)
	c.order = c.order[:0]
	for gi := range c.Groups {
		g := &c.Groups[gi]
		for li := range g.Lessons {
			l := &g.Lessons[li]
			l.ParentID = g.ParentID
			if err := l.Validate(); err != nil {
				return err
			}
			if _, dup := c.byID[l.ID]; dup {
				return fmt.Errorf("%w: duplicate id %s", ErrInvalid, l.ID)
			}
			c.byID[l.ID] = l
			c.order = append(c.order, l.ID)
		}
	}
	return nil
}

// Get returns the lesson with id
func (c *Catalog) Get(id string) (Lesson, error) {
	l, ok := c.byID[id]
	if !ok {
		return Lesson{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *l, nil
}

// IDs returns lesson ids in catalog order
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

// Len returns the number of lessons
func (c *Catalog) Len() int {
	return len(c.order)
}

// Next returns the lesson after id, wrapping at the end; empty id gives the first
func (c *Catalog) Next(id string) (Lesson, error) {
	if len(c.order) == 0 {
		return Lesson{}, ErrNotFound
	}
	next := 0
	for i, v := range c.order {
		if v == id {
			next = (i + 1) % len(c.order)
			break
		}
	}
	return c.Get(c.order[next])
}
