package tempo

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lixenwraith/fingerpath/clock"
	"github.com/lixenwraith/fingerpath/render"
	"github.com/lixenwraith/fingerpath/vmath"
)

// Change describes a committed switch of the active finger
type Change struct {
	Index int
	Color render.RGB
	At    time.Time
}

// Engine owns the active finger and the beat schedule
// Not safe for concurrent use; callers serialize access through the driver loop
type Engine struct {
	clock clock.Provider
	src   vmath.Source

	colors     []render.RGB
	numFingers int
	active     int
	interval   time.Duration
	next       time.Time

	onChange func(Change)
}

// NewEngine creates an engine reading time from clk; nil src uses a time-seeded generator
func NewEngine(clk clock.Provider, src vmath.Source) *Engine {
	if clk == nil {
		clk = clock.NewMonotonic()
	}
	if src == nil {
		src = vmath.NewTimeSeededRand()
	}
	return &Engine{
		clock:    clk,
		src:      src,
		interval: DefaultInterval,
	}
}

// Initialize restarts the beat schedule from now with a random starting finger
// Colors that fail to decode are kept as the fallback and reported in the error
func (e *Engine) Initialize(numFingers int, bpm float64, colors []string) error {
	err := e.SetFingerColors(colors)

	e.numFingers = numFingers
	e.active = 0
	if numFingers > 1 {
		e.active = vmath.Intn(e.src, numFingers)
	}
	e.interval = Interval(bpm)
	e.next = e.clock.Now().Add(e.interval)

	log.Debug().
		Int("fingers", numFingers).
		Float64("bpm", bpm).
		Dur("interval", e.interval).
		Int("active", e.active).
		Msg("color engine initialized")
	return err
}

// Retune switches to a new tempo keeping relative progress through the current beat
func (e *Engine) Retune(bpm float64) {
	now := e.clock.Now()
	old := e.interval
	updated := Interval(bpm)

	progress := 0.0
	if old > 0 {
		beatStart := e.next.Add(-old)
		progress = float64(now.Sub(beatStart)) / float64(old)
	}
	progress = vmath.Clamp(progress, 0, 1)

	e.interval = updated
	e.next = now.Add(time.Duration((1 - progress) * float64(updated)))

	log.Debug().
		Dur("old", old).
		Dur("new", updated).
		Float64("progress", progress).
		Msg("tempo retuned")
}

// SetFingerColors decodes hex colors once; bad entries become the fallback
func (e *Engine) SetFingerColors(colors []string) error {
	decoded, err := render.DecodeAll(colors)
	e.colors = decoded
	if err != nil {
		log.Warn().Err(err).Msg("finger colors")
		return fmt.Errorf("finger colors: %w", err)
	}
	return nil
}

// OnColorChange registers the single change observer, replacing any previous one
// A nil fn clears the registration
func (e *Engine) OnColorChange(fn func(Change)) {
	e.onChange = fn
}

// ColorAt advances the finger schedule to now and returns the color to display
func (e *Engine) ColorAt(now time.Time, numFingers int) render.RGB {
	if numFingers < 1 || numFingers > MaxFingers || len(e.colors) == 0 {
		return render.Fallback
	}

	if numFingers == 1 {
		e.active = 0
		return e.colors[0]
	}

	if !now.Before(e.next) {
		e.active = e.pickDifferent(numFingers)
		e.next = now.Add(e.interval)

		if e.onChange != nil {
			e.onChange(Change{Index: e.active, Color: e.color(e.active), At: now})
		}
	}

	return e.color(e.active)
}

// pickDifferent rejection-samples an index other than the active one
func (e *Engine) pickDifferent(numFingers int) int {
	for {
		idx := vmath.Intn(e.src, numFingers)
		if idx != e.active {
			return idx
		}
	}
}

func (e *Engine) color(idx int) render.RGB {
	if idx < 0 || idx >= len(e.colors) {
		return render.Fallback
	}
	return e.colors[idx]
}

// Current returns the active finger and its color without advancing the schedule
func (e *Engine) Current() (int, render.RGB) {
	if e.numFingers < 1 || e.numFingers > MaxFingers || len(e.colors) == 0 {
		return e.active, render.Fallback
	}
	return e.active, e.color(e.active)
}

// BeatInterval returns the duration of one beat
func (e *Engine) BeatInterval() time.Duration {
	return e.interval
}

// NextChange returns when the active finger will next switch
func (e *Engine) NextChange() time.Time {
	return e.next
}

// Colors returns a copy of the decoded finger colors
func (e *Engine) Colors() []render.RGB {
	out := make([]render.RGB, len(e.colors))
	copy(out, e.colors)
	return out
}
