package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lixenwraith/fingerpath/clock"
	"github.com/lixenwraith/fingerpath/effect"
	"github.com/lixenwraith/fingerpath/path"
	"github.com/lixenwraith/fingerpath/render"
	"github.com/lixenwraith/fingerpath/status"
	"github.com/lixenwraith/fingerpath/tempo"
	"github.com/lixenwraith/fingerpath/vmath"
)

// Countdown pre-roll, independent of the color tempo
const (
	CountdownStart    = 4
	CountdownInterval = 1200 * time.Millisecond
)

// BallRadiusFactor scales the smaller canvas dimension to the ball radius
const BallRadiusFactor = 0.05

// State is the driver lifecycle phase
type State uint8

const (
	StateIdle State = iota
	StateCountdown
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateCountdown:
		return "countdown"
	case StateRunning:
		return "running"
	default:
		return "idle"
	}
}

// MarshalText encodes the state name
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText
func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "idle":
		*s = StateIdle
	case "countdown":
		*s = StateCountdown
	case "running":
		*s = StateRunning
	default:
		return fmt.Errorf("unknown state %q", b)
	}
	return nil
}

// Driver moves the ball along the active path and sequences countdown and motion
// All methods must be called from the scheduler's goroutine.
type Driver struct {
	sched Scheduler
	clock clock.Provider
	gen   *path.Generator
	color *tempo.Engine
	glow  *effect.Glow
	sky   *effect.Sky

	settings Settings
	state    State
	path     *path.Path
	runID    uuid.UUID

	ballX, ballY float64
	radius       float64
	visible      bool
	countdown    int
	current      render.RGB

	frame FrameHandle
	timer TimerHandle

	onBeat      func(tempo.Change)
	onCountdown func(int)
	onFrame     func()

	statFrames    *atomic.Int64
	statBeats     *atomic.Int64
	statWraps     *atomic.Int64
	statStarts    *atomic.Int64
	statCountdown *atomic.Int64
	statState     *status.String
	statTempo     *status.Float
}

// NewDriver creates an idle driver on a flat path
// A nil src uses a time-seeded generator; a nil reg gets a private registry.
func NewDriver(sched Scheduler, clk clock.Provider, src vmath.Source, reg *status.Registry, settings Settings) *Driver {
	if clk == nil {
		clk = clock.NewMonotonic()
	}
	if src == nil {
		src = vmath.NewTimeSeededRand()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	settings = settings.Normalized()

	d := &Driver{
		sched:         sched,
		clock:         clk,
		gen:           path.NewGenerator(src),
		color:         tempo.NewEngine(clk, src),
		glow:          effect.NewGlow(60),
		sky:           effect.NewSky(settings.Width, settings.Height, src),
		settings:      settings,
		statFrames:    reg.Ints.Get(status.KeyFrames),
		statBeats:     reg.Ints.Get(status.KeyBeats),
		statWraps:     reg.Ints.Get(status.KeyWraps),
		statStarts:    reg.Ints.Get(status.KeyStarts),
		statCountdown: reg.Ints.Get(status.KeyCountdownTick),
		statState:     reg.Strings.Get(status.KeyState),
		statTempo:     reg.Floats.Get(status.KeyTempo),
	}
	d.color.OnColorChange(d.handleChange)
	d.path = path.Flat(settings.Width, settings.Height)
	d.Reset()
	return d
}

// OnBeat registers the observer fired on every finger change while running
func (d *Driver) OnBeat(fn func(tempo.Change)) { d.onBeat = fn }

// OnCountdown registers the observer fired with each countdown value, 4 through 0
func (d *Driver) OnCountdown(fn func(int)) { d.onCountdown = fn }

// OnFrame registers the observer fired after each running frame
func (d *Driver) OnFrame(fn func()) { d.onFrame = fn }

// Start cancels any run in progress and begins the countdown on p
func (d *Driver) Start(p *path.Path) {
	d.cancelAll()
	if p == nil {
		p = path.Flat(d.settings.Width, d.settings.Height)
	}
	d.path = p
	d.settings.PathKind = p.Kind
	d.runID = uuid.New()
	d.statStarts.Add(1)

	d.initColors()
	d.placeBall()
	d.glow.Clear()
	d.visible = false
	d.countdown = CountdownStart
	d.setState(StateCountdown)
	d.timer = d.sched.ScheduleInterval(CountdownInterval, d.countdownTick)

	log.Info().
		Str("run", d.runID.String()).
		Str("path", p.Kind.String()).
		Int("curves", len(p.Curves)).
		Msg("run started")
	d.notifyCountdown()
}

// StartFlat starts on a fresh flat path at the current canvas size
func (d *Driver) StartFlat() {
	d.Start(path.Flat(d.settings.Width, d.settings.Height))
}

// StartMountains starts on a freshly generated mountain path from current settings
func (d *Driver) StartMountains() {
	s := d.settings
	d.Start(d.gen.Mountain(s.NumMountains, s.IncludePlateaus, s.Width, s.Height))
}

// StartKind starts a fresh path of the given kind
func (d *Driver) StartKind(k path.Kind) {
	if k == path.KindMountains {
		d.StartMountains()
		return
	}
	d.StartFlat()
}

// Reset returns to idle with the ball visible at the start of the current path
func (d *Driver) Reset() {
	d.cancelAll()
	if d.path == nil {
		d.path = path.Flat(d.settings.Width, d.settings.Height)
	}
	d.countdown = 0
	d.visible = true
	d.placeBall()
	d.initColors()
	d.glow.Clear()
	_, d.current = d.color.Current()
	d.setState(StateIdle)
	log.Debug().Str("run", d.runID.String()).Msg("reset")
}

// Stop returns to idle and hides the ball; settings and path are kept
func (d *Driver) Stop() {
	d.cancelAll()
	d.countdown = 0
	d.visible = false
	d.glow.Clear()
	d.setState(StateIdle)
	log.Info().Str("run", d.runID.String()).Msg("run stopped")
}

// Resize regenerates a path of the same kind for the new canvas and resets
func (d *Driver) Resize(width, height float64) {
	d.cancelAll()
	s := d.settings
	s.Width, s.Height = width, height
	d.settings = s.Normalized()
	s = d.settings

	d.path = d.gen.Regenerate(d.path, s.NumMountains, s.IncludePlateaus, s.Width, s.Height)
	d.sky.Resize(s.Width, s.Height)
	log.Debug().Float64("width", s.Width).Float64("height", s.Height).Msg("resized")
	d.Reset()
}

// SetSpeed changes horizontal advance per frame; non-positive values are ignored
func (d *Driver) SetSpeed(speed float64) {
	if speed <= 0 || !vmath.Finite(speed) {
		return
	}
	d.settings.Speed = speed
}

// SetTempo retunes the color engine keeping beat progress
func (d *Driver) SetTempo(bpm float64) {
	if bpm <= 0 || !vmath.Finite(bpm) {
		return
	}
	d.settings.TempoBPM = bpm
	d.color.Retune(bpm)
	d.statTempo.Store(bpm)
}

// SetFingerCount clamps n to the supported range and restarts the finger schedule
func (d *Driver) SetFingerCount(n int) {
	d.settings.NumFingers = int(vmath.Clamp(float64(n), 1, tempo.MaxFingers))
	d.initColors()
	_, d.current = d.color.Current()
}

// SetFingerColors replaces the palette; bad entries show the fallback color
func (d *Driver) SetFingerColors(colors []string) error {
	d.settings.FingerColors = append([]string(nil), colors...)
	err := d.color.SetFingerColors(colors)
	_, d.current = d.color.Current()
	return err
}

// SetMountains changes generation parameters for the next mountain start
func (d *Driver) SetMountains(n int, includePlateaus bool) {
	if n < 1 {
		n = 1
	}
	d.settings.NumMountains = n
	d.settings.IncludePlateaus = includePlateaus
}

// Configure replaces every setting, resizing when the canvas changed, and resets
func (d *Driver) Configure(s Settings) {
	s = s.Normalized()
	resized := s.Width != d.settings.Width || s.Height != d.settings.Height
	kind := s.PathKind
	d.settings = s
	if resized {
		d.sky.Resize(s.Width, s.Height)
	}
	if kind == path.KindMountains {
		d.path = d.gen.Mountain(s.NumMountains, s.IncludePlateaus, s.Width, s.Height)
	} else {
		d.path = path.Flat(s.Width, s.Height)
	}
	d.Reset()
}

// Settings returns a copy of the current settings
func (d *Driver) Settings() Settings {
	s := d.settings
	s.FingerColors = append([]string(nil), s.FingerColors...)
	return s
}

// State returns the lifecycle phase
func (d *Driver) State() State { return d.state }

// Path returns the active path; it must not be modified
func (d *Driver) Path() *path.Path { return d.path }

// Ball returns the ball center and base radius
func (d *Driver) Ball() (x, y, radius float64) { return d.ballX, d.ballY, d.radius }

// Countdown reports whether the pre-roll is showing and its current value
func (d *Driver) Countdown() (counting bool, value int) {
	return d.state == StateCountdown, d.countdown
}

func (d *Driver) cancelAll() {
	if d.frame != 0 {
		d.sched.CancelFrame(d.frame)
		d.frame = 0
	}
	if d.timer != 0 {
		d.sched.CancelTimer(d.timer)
		d.timer = 0
	}
}

func (d *Driver) initColors() {
	s := d.settings
	if err := d.color.Initialize(s.NumFingers, s.TempoBPM, s.FingerColors); err != nil {
		log.Warn().Err(err).Msg("finger colors fell back")
	}
	d.statTempo.Store(s.TempoBPM)
}

func (d *Driver) placeBall() {
	d.radius = d.settings.BallRadius()
	d.ballX = d.radius
	d.ballY = path.HeightAt(d.ballX, d.path, d.settings.Height)
}

func (d *Driver) setState(s State) {
	d.state = s
	d.statState.Store(s.String())
}

func (d *Driver) notifyCountdown() {
	d.statCountdown.Add(1)
	if d.onCountdown != nil {
		d.onCountdown(d.countdown)
	}
}

func (d *Driver) countdownTick() {
	if d.state != StateCountdown {
		return
	}
	d.countdown--
	log.Debug().Int("value", d.countdown).Msg("countdown")
	d.notifyCountdown()
	if d.countdown > 0 {
		return
	}

	d.sched.CancelTimer(d.timer)
	d.timer = 0
	d.visible = true
	d.setState(StateRunning)
	d.step()
}

// step advances one running frame and re-arms the next
func (d *Driver) step() {
	d.frame = 0
	if d.state != StateRunning {
		return
	}
	now := d.clock.Now()

	d.ballX = vmath.Wrap(d.ballX+d.settings.Speed, -d.radius, d.settings.Width+d.radius)
	if d.ballX == -d.radius {
		d.statWraps.Add(1)
	}
	d.ballY = path.HeightAt(d.ballX, d.path, d.settings.Height)

	d.glow.Step(now)
	d.current = d.color.ColorAt(now, d.settings.NumFingers)
	d.sky.Step()
	d.statFrames.Add(1)

	d.frame = d.sched.ScheduleFrame(d.step)
	if d.onFrame != nil {
		d.onFrame()
	}
}

func (d *Driver) handleChange(c tempo.Change) {
	d.glow.Trigger(c.At)
	d.statBeats.Add(1)
	if d.onBeat != nil {
		d.onBeat(c)
	}
}
