package effect

import (
	"time"

	"github.com/charmbracelet/harmonica"
)

// GlowDuration is how long a color change highlight lasts
const GlowDuration = 400 * time.Millisecond

// Spring tuning: critically damped, settles well inside GlowDuration
const (
	glowFrequency = 15.0
	glowDamping   = 1.0
)

// Glow is a decaying highlight triggered on each finger change
type Glow struct {
	spring    harmonica.Spring
	intensity float64
	velocity  float64
	until     time.Time
}

// NewGlow creates a glow stepped fps times per second
func NewGlow(fps int) *Glow {
	if fps <= 0 {
		fps = 60
	}
	return &Glow{spring: harmonica.NewSpring(harmonica.FPS(fps), glowFrequency, glowDamping)}
}

// Trigger restarts the highlight at full intensity
func (g *Glow) Trigger(now time.Time) {
	g.intensity = 1
	g.velocity = 0
	g.until = now.Add(GlowDuration)
}

// Step advances one frame toward rest; the highlight is cut once its duration ends
func (g *Glow) Step(now time.Time) {
	if g.intensity == 0 && g.velocity == 0 {
		return
	}
	if !now.Before(g.until) {
		g.Clear()
		return
	}
	g.intensity, g.velocity = g.spring.Update(g.intensity, g.velocity, 0)
	if g.intensity < 0 {
		g.intensity = 0
	}
}

// Clear drops any active highlight
func (g *Glow) Clear() {
	g.intensity = 0
	g.velocity = 0
}

// Intensity returns the current highlight strength in [0, 1]
func (g *Glow) Intensity() float64 {
	return g.intensity
}

// Active reports whether the highlight is visible
func (g *Glow) Active() bool {
	return g.intensity > 0
}
