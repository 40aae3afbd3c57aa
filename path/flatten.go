package path

import "math"

// DefaultTolerance is the maximum distance from the curve for flattening, in canvas units
const DefaultTolerance = 0.5

// maxDepth bounds subdivision for degenerate input
const maxDepth = 16

// Polyline flattens the path's curves into connected line vertices
func (p *Path) Polyline(tolerance float64) []Point {
	if len(p.Curves) == 0 {
		return nil
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	points := []Point{p.Curves[0].P0}
	for _, c := range p.Curves {
		flattenQuadratic(c.P0, c.P1, c.P2, tolerance, 0, &points)
	}
	return points
}

func flattenQuadratic(p0, p1, p2 Point, tolerance float64, depth int, points *[]Point) {
	if depth >= maxDepth || distanceToLine(p1, p0, p2) < tolerance {
		*points = append(*points, p2)
		return
	}

	// de Casteljau split at t=0.5
	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	mid := q0.Lerp(q1, 0.5)

	flattenQuadratic(p0, q0, mid, tolerance, depth+1, points)
	flattenQuadratic(mid, q1, p2, tolerance, depth+1, points)
}

// distanceToLine returns the distance from p to segment ab
func distanceToLine(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Distance(a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return p.Distance(Point{X: a.X + t*dx, Y: a.Y + t*dy})
}
