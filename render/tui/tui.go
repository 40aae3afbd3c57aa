// Package tui draws engine frames onto a tcell screen.
package tui

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/fingerpath/engine"
	"github.com/lixenwraith/fingerpath/render"
)

// Canvas pixels per terminal cell, used to size the driver canvas from the terminal
const (
	CellWidth  = 8.0
	CellHeight = 16.0
	HUDRows    = 1
)

// cellEpsilon absorbs float error when mapping canvas coordinates to cells
const cellEpsilon = 1e-9

const (
	runePath = '─'
	runeBall = '█'
	runeSun  = '░'
)

// HUD is the text shown on the status row
type HUD struct {
	Lesson string
	Muted  bool
	Hint   string
}

// CanvasFor returns the canvas size that maps one-to-one onto the play area
func CanvasFor(cols, rows int) (width, height float64) {
	rows -= HUDRows
	if rows < 1 {
		rows = 1
	}
	return float64(cols) * CellWidth, float64(rows) * CellHeight
}

// Surface is the subset of tcell.Screen the renderer draws to
type Surface interface {
	Size() (int, int)
	Fill(rune, tcell.Style)
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Show()
}

// Renderer rasterizes driver frames onto a Surface
type Renderer struct {
	screen Surface
}

// NewRenderer returns a renderer drawing to screen
func NewRenderer(screen Surface) *Renderer {
	return &Renderer{screen: screen}
}

func style(fg, bg render.RGB) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(fg.R), int32(fg.G), int32(fg.B))).
		Background(tcell.NewRGBColor(int32(bg.R), int32(bg.G), int32(bg.B)))
}

// viewport maps canvas coordinates onto the play area cells
type viewport struct {
	cols, rows int
	sx, sy     float64 // cells per canvas pixel
}

func (v viewport) center(cx, cy int) (x, y float64) {
	return (float64(cx) + 0.5) / v.sx, (float64(cy) + 0.5) / v.sy
}

// cell floors both axes so negative coordinates map off-screen
func (v viewport) cell(x, y float64) (cx, cy int) {
	return int(math.Floor(x*v.sx + cellEpsilon)), int(math.Floor(y*v.sy + cellEpsilon))
}

func (v viewport) inside(cx, cy int) bool {
	return cx >= 0 && cx < v.cols && cy >= 0 && cy < v.rows
}

// Draw renders f and the HUD row, then shows the screen
func (r *Renderer) Draw(f engine.Frame, hud HUD) {
	r.draw(f, hud)
	r.screen.Show()
}

func (r *Renderer) draw(f engine.Frame, hud HUD) {
	cols, rows := r.screen.Size()
	bg := style(render.ColorBackground, render.ColorBackground)
	r.screen.Fill(' ', bg)

	vp := viewport{cols: cols, rows: rows - HUDRows}
	if vp.rows < 1 || cols < 1 || f.Width <= 0 || f.Height <= 0 {
		return
	}
	vp.sx = float64(cols) / f.Width
	vp.sy = float64(vp.rows) / f.Height

	r.drawSky(f, vp)
	r.drawPath(f, vp)
	if f.BallVisible {
		r.drawCircle(vp, f.BallX, f.BallY, f.PulsedRadius, runeBall, f.DisplayColor())
	}
	if f.Counting {
		r.drawCountdown(vp, f.Countdown)
	}
	r.drawHUD(f, hud, cols, rows-1)
}

func (r *Renderer) drawSky(f engine.Frame, vp viewport) {
	if f.Sky == nil {
		return
	}
	for _, c := range f.Sky.Circles() {
		ch := ' '
		if c.Color == render.ColorSun {
			ch = runeSun
		}
		r.drawCircle(vp, c.X, c.Y, c.R, ch, c.Color)
	}
}

// drawPath samples the track height at each column center
func (r *Renderer) drawPath(f engine.Frame, vp viewport) {
	if f.Path == nil {
		return
	}
	c := render.ColorPath
	if f.State == engine.StateIdle {
		c = c.Dim(0.4)
	}
	st := style(c, render.ColorBackground)
	for cx := 0; cx < vp.cols; cx++ {
		x, _ := vp.center(cx, 0)
		y := f.Path.HeightAt(x)
		_, cy := vp.cell(x, y)
		if vp.inside(cx, cy) {
			r.screen.SetContent(cx, cy, runePath, nil, st)
		}
	}
}

// drawCircle fills cells whose centers lie within radius; at least one cell is drawn
func (r *Renderer) drawCircle(vp viewport, x, y, radius float64, ch rune, c render.RGB) {
	st := style(c, c)
	if ch != ' ' {
		st = style(c, render.ColorBackground)
	}

	minX, minY := vp.cell(x-radius, y-radius)
	maxX, maxY := vp.cell(x+radius, y+radius)
	drawn := false
	for cy := minY; cy <= maxY; cy++ {
		for cx := minX; cx <= maxX; cx++ {
			if !vp.inside(cx, cy) {
				continue
			}
			px, py := vp.center(cx, cy)
			dx, dy := px-x, py-y
			if dx*dx+dy*dy <= radius*radius {
				r.screen.SetContent(cx, cy, ch, nil, st)
				drawn = true
			}
		}
	}
	if !drawn {
		cx, cy := vp.cell(x, y)
		if vp.inside(cx, cy) {
			r.screen.SetContent(cx, cy, ch, nil, st)
		}
	}
}

func (r *Renderer) drawCountdown(vp viewport, value int) {
	digits := strconv.Itoa(value)
	total := len(digits)*(glyphWidth+glyphSpacing) - glyphSpacing
	x0 := (vp.cols - total) / 2
	y0 := (vp.rows - glyphHeight) / 2
	st := style(render.ColorCountdown, render.ColorCountdown)

	for i, d := range digits {
		gx := x0 + i*(glyphWidth+glyphSpacing)
		for row := 0; row < glyphHeight; row++ {
			for col := 0; col < glyphWidth; col++ {
				if !glyphSet(int(d-'0'), col, row) {
					continue
				}
				if vp.inside(gx+col, y0+row) {
					r.screen.SetContent(gx+col, y0+row, ' ', nil, st)
				}
			}
		}
	}
}

func (r *Renderer) drawHUD(f engine.Frame, hud HUD, cols, row int) {
	text := fmt.Sprintf(" %-9s %3.0f bpm  speed %.1f  finger %d/%d", f.State, f.TempoBPM, f.Speed, f.Finger+1, f.NumFingers)
	if hud.Lesson != "" {
		text += "  " + hud.Lesson
	}
	if hud.Muted {
		text += "  [muted]"
	}
	if hud.Hint != "" {
		text += "  " + hud.Hint
	}
	st := style(render.ColorHUD, render.RGBBlack)
	swatch := style(f.Color, f.Color)

	x := 0
	for _, ch := range text {
		if x >= cols {
			return
		}
		r.screen.SetContent(x, row, ch, nil, st)
		x++
	}
	for ; x < cols; x++ {
		r.screen.SetContent(x, row, ' ', nil, st)
	}
	if cols > 0 && f.State == engine.StateRunning {
		r.screen.SetContent(cols-1, row, ' ', nil, swatch)
	}
}
