package effect

import (
	"github.com/lixenwraith/fingerpath/render"
	"github.com/lixenwraith/fingerpath/vmath"
)

// Sun placement relative to the smaller canvas dimension and the top-right corner
const (
	sunRadiusFactor = 0.1
	sunMargin       = 20.0
)

// Cloud drift range in canvas units per frame
const (
	cloudSpeedMin = 0.1
	cloudSpeedMax = 0.4
)

// Puff is one circle of a cloud, relative to the cloud origin in units of cloud size
type Puff struct {
	DX, DY, R float64
}

// cloudPuffs is the silhouette shared by all clouds
var cloudPuffs = []Puff{
	{0, 0, 1},
	{0.8, -0.3, 0.7},
	{1.5, 0, 0.9},
	{0.5, 0.5, 0.6},
	{1.2, 0.4, 0.7},
}

// Circle is a filled disc in canvas coordinates
type Circle struct {
	X, Y, R float64
	Color   render.RGB
}

// Cloud drifts right and wraps; it is drawn at Offset and Offset-width for a seamless loop
type Cloud struct {
	BaseX, BaseY float64
	Size         float64
	Offset       float64
	Speed        float64
	Color        render.RGB
}

// Sky holds the sun and the drifting clouds
type Sky struct {
	Width, Height float64
	Sun           Circle
	Clouds        [3]Cloud
}

// NewSky lays out the sky for a canvas, drawing cloud speeds from src
func NewSky(width, height float64, src vmath.Source) *Sky {
	if src == nil {
		src = vmath.NewTimeSeededRand()
	}
	s := &Sky{}
	s.Clouds[0].Color = render.MustParseHex("#add8e6")
	s.Clouds[1].Color = render.MustParseHex("#b0e0e6")
	s.Clouds[2].Color = render.MustParseHex("#87cefa")
	for i := range s.Clouds {
		s.Clouds[i].Speed = vmath.Range(src, cloudSpeedMin, cloudSpeedMax)
	}
	s.Resize(width, height)
	return s
}

// Resize recomputes the layout, keeping drift speeds and offsets
func (s *Sky) Resize(width, height float64) {
	s.Width, s.Height = width, height
	m := min(width, height)

	r := m * sunRadiusFactor
	s.Sun = Circle{X: width - r - sunMargin, Y: r + sunMargin, R: r, Color: render.ColorSun}

	c0 := &s.Clouds[0]
	c0.BaseX, c0.BaseY, c0.Size = m*0.15, m*0.15, m*0.08

	c1 := &s.Clouds[1]
	c1.BaseX = c0.BaseX + c0.Size*4.5
	c1.BaseY = c0.BaseY + c0.Size*0.5
	c1.Size = c0.Size * 0.8

	c2 := &s.Clouds[2]
	c2.BaseX = c1.BaseX + c1.Size*3
	c2.BaseY = c1.BaseY - c1.Size*0.5
	c2.Size = c1.Size * 0.9

	for i := range s.Clouds {
		if s.Clouds[i].Offset > width {
			s.Clouds[i].Offset = 0
		}
	}
}

// Step drifts every cloud by its speed, wrapping past the right edge
func (s *Sky) Step() {
	for i := range s.Clouds {
		c := &s.Clouds[i]
		c.Offset += c.Speed
		if c.Offset > s.Width {
			c.Offset = 0
		}
	}
}

// Circles returns every disc to draw: the sun first, then both copies of each cloud
func (s *Sky) Circles() []Circle {
	out := make([]Circle, 0, 1+len(s.Clouds)*2*len(cloudPuffs))
	out = append(out, s.Sun)
	for _, c := range s.Clouds {
		for _, shift := range [2]float64{c.Offset, c.Offset - s.Width} {
			for _, p := range cloudPuffs {
				out = append(out, Circle{
					X:     shift + c.BaseX + c.Size*p.DX,
					Y:     c.BaseY + c.Size*p.DY,
					R:     c.Size * p.R,
					Color: c.Color,
				})
			}
		}
	}
	return out
}

// Clone returns an independent copy for snapshots
func (s *Sky) Clone() *Sky {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
