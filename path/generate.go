package path

import (
	"github.com/lixenwraith/fingerpath/vmath"
)

// Playable band and plateau odds for generated mountains
const (
	bandLow       = 0.1
	bandHigh      = 0.9
	plateauChance = 0.3
)

// Flat builds a single-segment horizontal line at mid height
func Flat(width, height float64) *Path {
	y := height / 2
	start := Point{X: 0, Y: y}
	end := Point{X: width, Y: y}
	return &Path{
		Kind:   KindFlat,
		Width:  width,
		Height: height,
		Points: []Point{start, end},
		Curves: []CurveSegment{{P0: start, P1: Point{X: width / 2, Y: y}, P2: end}},
	}
}

// Generator produces randomized paths from an injectable source
type Generator struct {
	src vmath.Source
}

// NewGenerator wraps src; nil falls back to a time-seeded generator
func NewGenerator(src vmath.Source) *Generator {
	if src == nil {
		src = vmath.NewTimeSeededRand()
	}
	return &Generator{src: src}
}

// Mountain builds a randomized path of rounded peaks
// Anchors sit at evenly spaced x with y drawn from the playable band. With plateaus
// enabled an interior anchor may be preceded by a flat run at the previous height.
// Curves chain through anchor midpoints so peaks are rounded; the last curve ends
// on the final anchor at x == width.
func (g *Generator) Mountain(numSegments int, includePlateaus bool, width, height float64) *Path {
	if numSegments < 1 {
		numSegments = 1
	}

	segmentWidth := width / float64(numSegments)
	minY := height * bandLow
	maxY := height * bandHigh

	points := make([]Point, 0, numSegments*2+1)
	points = append(points, Point{X: 0, Y: height / 2})

	for i := 0; i < numSegments; i++ {
		x := float64(i+1) * segmentWidth
		if i == numSegments-1 {
			// Snap to the edge so the last anchor lands exactly on width
			x = width
		}

		if includePlateaus {
			roll := g.src.Float64()
			if roll < plateauChance && i < numSegments-1 {
				prev := points[len(points)-1]
				points = append(points, Point{X: x - segmentWidth/2, Y: prev.Y})
			}
		}

		points = append(points, Point{X: x, Y: vmath.Range(g.src, minY, maxY)})
	}

	return &Path{
		Kind:   KindMountains,
		Width:  width,
		Height: height,
		Points: points,
		Curves: chainCurves(points, includePlateaus),
	}
}

// chainCurves derives midpoint-chained segments from anchors
func chainCurves(points []Point, includePlateaus bool) []CurveSegment {
	if len(points) == 2 && !includePlateaus {
		a, b := points[0], points[1]
		return []CurveSegment{{P0: a, P1: Point{X: (a.X + b.X) / 2, Y: a.Y}, P2: b}}
	}

	curves := make([]CurveSegment, 0, len(points)-1)
	p0 := points[0]
	for i := 0; i < len(points)-1; i++ {
		next := points[i+1]
		end := next
		if i < len(points)-2 {
			end = next.Midpoint(points[i+2])
		}
		curves = append(curves, CurveSegment{P0: p0, P1: next, P2: end})
		p0 = end
	}
	return curves
}

// Mountain builds a mountain path with a fresh time-seeded source
func Mountain(numSegments int, includePlateaus bool, width, height float64) *Path {
	return NewGenerator(nil).Mountain(numSegments, includePlateaus, width, height)
}

// Regenerate builds a new path of the same kind as p at the given size
func (g *Generator) Regenerate(p *Path, numSegments int, includePlateaus bool, width, height float64) *Path {
	if p != nil && p.Kind == KindMountains {
		return g.Mountain(numSegments, includePlateaus, width, height)
	}
	return Flat(width, height)
}
