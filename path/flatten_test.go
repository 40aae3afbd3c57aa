package path

import (
	"testing"

	"github.com/lixenwraith/fingerpath/vmath"
)

func TestPolylineFlat(t *testing.T) {
	pts := Flat(1000, 400).Polyline(0)
	if len(pts) != 2 {
		t.Fatalf("len = %d, want 2", len(pts))
	}
	if pts[0] != (Point{0, 200}) || pts[1] != (Point{1000, 200}) {
		t.Errorf("polyline = %v, want endpoints of flat line", pts)
	}
}

func TestPolylineMountain(t *testing.T) {
	p := NewGenerator(vmath.NewFastRand(11)).Mountain(4, true, 1000, 400)
	pts := p.Polyline(0.5)

	if pts[0] != p.Start() {
		t.Errorf("first vertex = %v, want %v", pts[0], p.Start())
	}
	if pts[len(pts)-1] != p.End() {
		t.Errorf("last vertex = %v, want %v", pts[len(pts)-1], p.End())
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].X < pts[i-1].X {
			t.Fatalf("vertex %d x %v before previous %v", i, pts[i].X, pts[i-1].X)
		}
	}
}

func TestPolylineEmpty(t *testing.T) {
	if pts := (&Path{}).Polyline(1); pts != nil {
		t.Errorf("Polyline(empty) = %v, want nil", pts)
	}
}
