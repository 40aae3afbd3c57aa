// Package path models the ball's track as a chain of quadratic Bézier segments
// and answers height queries along the horizontal axis.
package path

import (
	"fmt"
	"math"
)

// Height scan resolution per segment; the scan evaluates steps+1 samples
const scanSteps = 100

// Segments whose control-point x-range is within this distance of the query are searched
const rangeTolerance = 1.0

// Point is a canvas coordinate, y grows downwards
type Point struct {
	X, Y float64
}

// Lerp interpolates between p and q by t
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Midpoint returns the point halfway between p and q
func (p Point) Midpoint(q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// Distance returns the euclidean distance between p and q
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// CurveSegment is a quadratic Bézier: start, control, end
type CurveSegment struct {
	P0, P1, P2 Point
}

// MinX returns the smallest control-point x
func (c CurveSegment) MinX() float64 {
	return math.Min(c.P0.X, math.Min(c.P1.X, c.P2.X))
}

// MaxX returns the largest control-point x
func (c CurveSegment) MaxX() float64 {
	return math.Max(c.P0.X, math.Max(c.P1.X, c.P2.X))
}

// Kind distinguishes generated path families
type Kind uint8

const (
	KindFlat Kind = iota
	KindMountains
)

func (k Kind) String() string {
	switch k {
	case KindMountains:
		return "mountains"
	default:
		return "flat"
	}
}

// ParseKind maps "flat" or "mountains" to a Kind
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "flat":
		return KindFlat, true
	case "mountains", "mountain":
		return KindMountains, true
	}
	return KindFlat, false
}

// Path is an immutable track: generating anchors plus derived curves
// Replaced wholesale on any regeneration, never mutated after construction
type Path struct {
	Kind   Kind
	Width  float64
	Height float64
	Points []Point
	Curves []CurveSegment
}

// PointAt evaluates B(t) = (1-t)²p0 + 2(1-t)t·p1 + t²p2
func PointAt(t float64, c CurveSegment) Point {
	u := 1 - t
	a := u * u
	b := 2 * u * t
	d := t * t
	return Point{
		X: a*c.P0.X + b*c.P1.X + d*c.P2.X,
		Y: a*c.P0.Y + b*c.P1.Y + d*c.P2.Y,
	}
}

// HeightAt resolves the path's y at horizontal position x
// The first segment whose widened x-range contains x is scanned at fixed t steps and
// the sample closest in x wins. Outside every segment the nearer endpoint's y is used;
// with no segments the vertical midpoint of the canvas is returned.
func HeightAt(x float64, p *Path, canvasHeight float64) float64 {
	if p == nil || len(p.Curves) == 0 {
		return canvasHeight / 2
	}

	for _, c := range p.Curves {
		if x < c.MinX()-rangeTolerance || x > c.MaxX()+rangeTolerance {
			continue
		}

		bestT := 0.0
		bestDiff := math.Inf(1)
		for step := 0; step <= scanSteps; step++ {
			t := float64(step) / scanSteps
			diff := math.Abs(PointAt(t, c).X - x)
			if diff < bestDiff {
				bestDiff = diff
				bestT = t
			}
		}
		return PointAt(bestT, c).Y
	}

	if len(p.Points) > 0 {
		first := p.Points[0]
		last := p.Points[len(p.Points)-1]
		if x < first.X {
			return first.Y
		}
		if x > last.X {
			return last.Y
		}
	}
	return canvasHeight / 2
}

// HeightAt resolves y at x using the path's own canvas height for the fallback
func (p *Path) HeightAt(x float64) float64 {
	return HeightAt(x, p, p.Height)
}

// Start returns the first anchor, or the canvas midline origin for an empty path
func (p *Path) Start() Point {
	if len(p.Points) == 0 {
		return Point{X: 0, Y: p.Height / 2}
	}
	return p.Points[0]
}

// End returns the last anchor
func (p *Path) End() Point {
	if len(p.Points) == 0 {
		return Point{X: p.Width, Y: p.Height / 2}
	}
	return p.Points[len(p.Points)-1]
}

// MarshalText encodes the kind name
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText accepts "flat" or "mountains"
func (k *Kind) UnmarshalText(b []byte) error {
	v, ok := ParseKind(string(b))
	if !ok {
		return fmt.Errorf("unknown path kind %q", b)
	}
	*k = v
	return nil
}
