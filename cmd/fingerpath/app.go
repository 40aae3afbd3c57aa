package main

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/lixenwraith/fingerpath/audio"
	"github.com/lixenwraith/fingerpath/config"
	"github.com/lixenwraith/fingerpath/engine"
	"github.com/lixenwraith/fingerpath/lesson"
	"github.com/lixenwraith/fingerpath/path"
	"github.com/lixenwraith/fingerpath/render/tui"
	"github.com/lixenwraith/fingerpath/store"
	"github.com/lixenwraith/fingerpath/tempo"
)

const (
	tempoStep  = 5.0
	minTempo   = 5.0
	speedStep  = 0.25
	storeWait  = 2 * time.Second
	keyHint    = "f/m start  r reset  s stop  +/- tempo  [/] speed  1-4 fingers  l lesson  q quit"
	pollBuffer = 64
)

// app wires the driver to the terminal, the metronome and the store
type app struct {
	cfg       *config.Config
	loop      *engine.Loop
	driver    *engine.Driver
	metronome *audio.Metronome
	lessons   *lesson.Catalog
	store     *store.Store

	screen   tcell.Screen
	renderer *tui.Renderer

	lesson lesson.Lesson
}

func newApp(cfg *config.Config, lessons *lesson.Catalog, st *store.Store, player audio.Player) *app {
	loop := engine.NewLoop(cfg.FrameInterval)
	a := &app{
		cfg:       cfg,
		loop:      loop,
		driver:    engine.NewDriver(loop, nil, nil, nil, cfg.Engine),
		metronome: audio.NewMetronome(player),
		lessons:   lessons,
		store:     st,
	}
	a.metronome.SetVolume(cfg.Sound.Gain)
	a.metronome.Mute(!cfg.Sound.Enabled)
	a.driver.OnBeat(func(tempo.Change) { a.metronome.Click() })
	a.driver.OnCountdown(a.metronome.Tick)
	return a
}

// attach binds the terminal; the canvas is sized to it once run starts the loop
func (a *app) attach(screen tcell.Screen) {
	a.screen = screen
	a.renderer = tui.NewRenderer(screen)
}

// do runs fn against the driver on the loop goroutine
func (a *app) do(fn func(d *engine.Driver)) {
	a.loop.Do(func() { fn(a.driver) })
}

func (a *app) settings() (engine.Settings, bool) {
	var s engine.Settings
	ok := a.loop.Do(func() { s = a.driver.Settings() })
	return s, ok
}

func (a *app) resize() {
	if a.screen == nil {
		return
	}
	w, h := tui.CanvasFor(a.screen.Size())
	a.do(func(d *engine.Driver) { d.Resize(w, h) })
}

func (a *app) start(kind path.Kind) {
	a.do(func(d *engine.Driver) { d.StartKind(kind) })
}

func (a *app) startLesson(l lesson.Lesson) {
	a.lesson = l
	a.do(func(d *engine.Driver) {
		d.Configure(l.Apply(d.Settings()))
		d.Start(d.Path())
	})
	log.Info().Str("lesson", l.ID).Msg("lesson started")
}

func (a *app) nextLesson() {
	if a.lessons == nil {
		return
	}
	l, err := a.lessons.Next(a.lesson.ID)
	if err != nil {
		log.Warn().Err(err).Msg("next lesson")
		return
	}
	a.startLesson(l)
}

// handleKey applies a key press; false means quit
func (a *app) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
		return a.handleRune(ev.Rune())
	}
	return true
}

func (a *app) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case 'f':
		a.start(path.KindFlat)
	case 'm':
		a.start(path.KindMountains)
	case 'r':
		a.do(func(d *engine.Driver) { d.Reset() })
	case 's':
		a.do(func(d *engine.Driver) { d.Stop() })
	case '+', '=':
		a.do(func(d *engine.Driver) { d.SetTempo(d.Settings().TempoBPM + tempoStep) })
	case '-':
		a.do(func(d *engine.Driver) { d.SetTempo(max(d.Settings().TempoBPM-tempoStep, minTempo)) })
	case ']':
		a.do(func(d *engine.Driver) { d.SetSpeed(d.Settings().Speed + speedStep) })
	case '[':
		a.do(func(d *engine.Driver) { d.SetSpeed(max(d.Settings().Speed-speedStep, speedStep)) })
	case '1', '2', '3', '4':
		n := int(r - '0')
		a.do(func(d *engine.Driver) { d.SetFingerCount(n) })
	case 'p':
		a.do(func(d *engine.Driver) {
			s := d.Settings()
			d.SetMountains(s.NumMountains, !s.IncludePlateaus)
		})
	case 'n':
		a.do(func(d *engine.Driver) {
			s := d.Settings()
			d.SetMountains(s.NumMountains+1, s.IncludePlateaus)
		})
	case 'N':
		a.do(func(d *engine.Driver) {
			s := d.Settings()
			d.SetMountains(s.NumMountains-1, s.IncludePlateaus)
		})
	case 'l':
		a.nextLesson()
	case 'a':
		a.metronome.Mute(!a.metronome.Muted())
	}
	return true
}

func (a *app) draw() {
	var f engine.Frame
	if !a.loop.Do(func() { f = a.driver.Snapshot() }) {
		return
	}
	a.renderer.Draw(f, tui.HUD{
		Lesson: a.lesson.Name,
		Muted:  a.metronome.Muted(),
		Hint:   keyHint,
	})
}

// run drives input and rendering until quit or the terminal closes
func (a *app) run() {
	a.loop.Start()

	events := make(chan tcell.Event, pollBuffer)
	goSafe(func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	})

	a.resize()
	if a.cfg.Lesson != "" && a.lessons != nil {
		if l, err := a.lessons.Get(a.cfg.Lesson); err == nil {
			a.startLesson(l)
		} else {
			log.Warn().Err(err).Msg("startup lesson")
		}
	}

	ticker := time.NewTicker(a.cfg.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !a.handleKey(ev) {
					return
				}
			case *tcell.EventResize:
				a.screen.Sync()
				a.resize()
			}
		case <-ticker.C:
			a.draw()
		}
	}
}

// shutdown remembers the last settings and stops the loop
func (a *app) shutdown() {
	if s, ok := a.settings(); ok && a.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), storeWait)
		if err := a.store.SaveSettings(ctx, s); err != nil {
			log.Warn().Err(err).Msg("save settings")
		}
		cancel()
	}
	a.loop.Stop()
}
