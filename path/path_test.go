package path

import (
	"math"
	"testing"

	"github.com/lixenwraith/fingerpath/vmath"
)

func TestPointAt(t *testing.T) {
	c := CurveSegment{P0: Point{0, 0}, P1: Point{50, 100}, P2: Point{100, 0}}

	tests := []struct {
		name string
		t    float64
		want Point
	}{
		{"start", 0, Point{0, 0}},
		{"middle", 0.5, Point{50, 50}},
		{"end", 1, Point{100, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PointAt(tt.t, c)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("PointAt(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestFlatPathExactness(t *testing.T) {
	p := Flat(1000, 400)

	if len(p.Curves) != 1 {
		t.Fatalf("len(Curves) = %d, want 1", len(p.Curves))
	}
	for x := 0.0; x <= 1000; x += 7.5 {
		if got := p.HeightAt(x); math.Abs(got-200) > 1e-9 {
			t.Fatalf("HeightAt(%v) = %v, want 200", x, got)
		}
	}
}

func TestHeightAtFallbacks(t *testing.T) {
	if got := HeightAt(10, nil, 300); got != 150 {
		t.Errorf("HeightAt(nil) = %v, want 150", got)
	}
	if got := HeightAt(10, &Path{}, 300); got != 150 {
		t.Errorf("HeightAt(empty) = %v, want 150", got)
	}

	g := NewGenerator(vmath.NewFastRand(7))
	p := g.Mountain(4, false, 1000, 400)
	if got := p.HeightAt(-50); got != p.Points[0].Y {
		t.Errorf("HeightAt(-50) = %v, want first point y %v", got, p.Points[0].Y)
	}
	last := p.Points[len(p.Points)-1]
	if got := p.HeightAt(1050); got != last.Y {
		t.Errorf("HeightAt(1050) = %v, want last point y %v", got, last.Y)
	}
}

func TestEndpointInvariant(t *testing.T) {
	for seed := uint64(1); seed <= 25; seed++ {
		g := NewGenerator(vmath.NewFastRand(seed))
		for _, n := range []int{1, 2, 3, 6} {
			for _, plateaus := range []bool{false, true} {
				p := g.Mountain(n, plateaus, 1000, 400)
				first := p.Points[0]
				last := p.Points[len(p.Points)-1]

				if first.X != 0 || last.X != 1000 {
					t.Fatalf("seed %d n %d: endpoints x = %v,%v, want 0,1000", seed, n, first.X, last.X)
				}
				if got := p.HeightAt(0); math.Abs(got-first.Y) > 1e-9 {
					t.Errorf("seed %d n %d plateaus %v: HeightAt(0) = %v, want %v", seed, n, plateaus, got, first.Y)
				}
				if got := p.HeightAt(1000); math.Abs(got-last.Y) > 1e-9 {
					t.Errorf("seed %d n %d plateaus %v: HeightAt(1000) = %v, want %v", seed, n, plateaus, got, last.Y)
				}
			}
		}
	}
}

func TestContinuity(t *testing.T) {
	const height = 400.0
	for seed := uint64(1); seed <= 10; seed++ {
		p := NewGenerator(vmath.NewFastRand(seed)).Mountain(5, false, 1000, height)

		prev := p.HeightAt(0)
		for x := 1.0; x <= 1000; x++ {
			y := p.HeightAt(x)
			if math.Abs(y-prev) > 0.15*height {
				t.Fatalf("seed %d: jump at x=%v from %v to %v", seed, x, prev, y)
			}
			prev = y
		}
	}
}

func TestMountainScenario(t *testing.T) {
	p := NewGenerator(vmath.NewFastRand(99)).Mountain(3, false, 1000, 400)

	if len(p.Points) != 4 {
		t.Fatalf("len(Points) = %d, want 4", len(p.Points))
	}
	if len(p.Curves) != 3 {
		t.Fatalf("len(Curves) = %d, want 3", len(p.Curves))
	}
	if p.Points[0] != (Point{0, 200}) {
		t.Errorf("Points[0] = %v, want {0 200}", p.Points[0])
	}
	if p.Points[3].X != 1000 {
		t.Errorf("Points[3].X = %v, want 1000", p.Points[3].X)
	}
	for i, pt := range p.Points[1:] {
		if pt.Y < 40 || pt.Y > 360 {
			t.Errorf("Points[%d].Y = %v, outside playable band", i+1, pt.Y)
		}
	}
	for i := 1; i < len(p.Curves); i++ {
		if p.Curves[i].P0 != p.Curves[i-1].P2 {
			t.Errorf("curve %d start %v != curve %d end %v", i, p.Curves[i].P0, i-1, p.Curves[i-1].P2)
		}
	}
	if end := p.Curves[2].P2; end != p.Points[3] {
		t.Errorf("last curve end = %v, want %v", end, p.Points[3])
	}
}

func TestMountainPlateaus(t *testing.T) {
	// roll, y per iteration: plateau on first, none on second, last never
	src := &vmath.Sequence{Values: []float64{0.1, 0.5, 0.9, 0.0, 0.1, 1.0}}
	p := NewGenerator(src).Mountain(3, true, 1000, 400)

	if len(p.Points) != 5 {
		t.Fatalf("len(Points) = %d, want 5", len(p.Points))
	}
	plateau := p.Points[1]
	if math.Abs(plateau.X-1000.0/6) > 1e-9 {
		t.Errorf("plateau x = %v, want %v", plateau.X, 1000.0/6)
	}
	if plateau.Y != p.Points[0].Y {
		t.Errorf("plateau y = %v, want previous y %v", plateau.Y, p.Points[0].Y)
	}
	if p.Points[3].Y != 40 {
		t.Errorf("Points[3].Y = %v, want 40", p.Points[3].Y)
	}
	if len(p.Curves) != 4 {
		t.Errorf("len(Curves) = %d, want 4", len(p.Curves))
	}
}

func TestMountainSingleSegment(t *testing.T) {
	p := NewGenerator(&vmath.Sequence{Values: []float64{0.25}}).Mountain(1, false, 1000, 400)

	if len(p.Points) != 2 || len(p.Curves) != 1 {
		t.Fatalf("points/curves = %d/%d, want 2/1", len(p.Points), len(p.Curves))
	}
	c := p.Curves[0]
	if c.P1 != (Point{500, 200}) {
		t.Errorf("control = %v, want {500 200}", c.P1)
	}
	if c.P2 != (Point{1000, 120}) {
		t.Errorf("end = %v, want {1000 120}", c.P2)
	}
}

func TestMountainClampsSegments(t *testing.T) {
	p := NewGenerator(vmath.NewFastRand(3)).Mountain(0, false, 500, 200)
	if len(p.Points) != 2 {
		t.Errorf("len(Points) = %d, want 2", len(p.Points))
	}
}

func TestRegenerateKeepsKind(t *testing.T) {
	g := NewGenerator(vmath.NewFastRand(5))
	m := g.Regenerate(g.Mountain(2, false, 1000, 400), 2, false, 600, 300)
	if m.Kind != KindMountains || m.Width != 600 {
		t.Errorf("Regenerate mountain = %v w=%v, want mountains w=600", m.Kind, m.Width)
	}
	f := g.Regenerate(Flat(1000, 400), 2, false, 600, 300)
	if f.Kind != KindFlat || f.HeightAt(300) != 150 {
		t.Errorf("Regenerate flat = %v y=%v, want flat y=150", f.Kind, f.HeightAt(300))
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"flat", KindFlat, true},
		{"mountains", KindMountains, true},
		{"hills", KindFlat, false},
	}
	for _, tt := range tests {
		got, ok := ParseKind(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseKind(%q) = %v,%v, want %v,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
