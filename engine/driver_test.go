package engine

import (
	"math"
	"testing"
	"time"

	"github.com/lixenwraith/fingerpath/clock"
	"github.com/lixenwraith/fingerpath/path"
	"github.com/lixenwraith/fingerpath/status"
	"github.com/lixenwraith/fingerpath/tempo"
	"github.com/lixenwraith/fingerpath/vmath"
)

var testStart = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestDriver(s Settings) (*Driver, *ManualScheduler) {
	clk := clock.NewMock(testStart)
	sched := NewManualScheduler(clk)
	d := NewDriver(sched, clk, vmath.NewFastRand(42), status.NewRegistry(), s)
	return d, sched
}

// runToMotion advances through the whole countdown
func runToMotion(sched *ManualScheduler) {
	sched.Advance(CountdownStart * CountdownInterval)
}

func TestNewDriverIdle(t *testing.T) {
	d, sched := newTestDriver(DefaultSettings())

	if d.State() != StateIdle {
		t.Errorf("State() = %v, want idle", d.State())
	}
	x, y, r := d.Ball()
	if r != 20 || x != 20 || y != 200 {
		t.Errorf("Ball() = (%v,%v,%v), want (20,200,20)", x, y, r)
	}
	if sched.PendingFrames() != 0 || sched.ActiveTimers() != 0 {
		t.Errorf("pending frames/timers = %d/%d, want 0/0", sched.PendingFrames(), sched.ActiveTimers())
	}
	if !d.Snapshot().BallVisible {
		t.Error("ball hidden after construction, want visible")
	}
}

func TestCountdownSequence(t *testing.T) {
	d, sched := newTestDriver(DefaultSettings())

	var seen []int
	d.OnCountdown(func(n int) { seen = append(seen, n) })
	d.StartFlat()

	if counting, v := d.Countdown(); !counting || v != 4 {
		t.Fatalf("Countdown() = %v,%d, want true,4", counting, v)
	}
	if d.Snapshot().BallVisible {
		t.Error("ball visible during countdown")
	}

	for _, want := range []int{3, 2, 1} {
		sched.Advance(CountdownInterval)
		if _, v := d.Countdown(); v != want {
			t.Fatalf("countdown = %d, want %d", v, want)
		}
		if d.State() != StateCountdown {
			t.Fatalf("State() = %v, want countdown", d.State())
		}
	}

	sched.Advance(CountdownInterval)
	if d.State() != StateRunning {
		t.Fatalf("State() = %v, want running", d.State())
	}
	if sched.ActiveTimers() != 0 {
		t.Errorf("ActiveTimers() = %d, want 0 after countdown", sched.ActiveTimers())
	}
	if sched.PendingFrames() != 1 {
		t.Errorf("PendingFrames() = %d, want 1", sched.PendingFrames())
	}
	if x, _, _ := d.Ball(); x != 21 {
		t.Errorf("ball x after first frame = %v, want 21", x)
	}

	want := []int{4, 3, 2, 1, 0}
	if len(seen) != len(want) {
		t.Fatalf("countdown values = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("countdown values = %v, want %v", seen, want)
			break
		}
	}
}

func TestCountdownIgnoresTempo(t *testing.T) {
	s := DefaultSettings()
	s.TempoBPM = 200
	d, sched := newTestDriver(s)
	d.StartFlat()

	sched.Advance(CountdownInterval - time.Millisecond)
	if _, v := d.Countdown(); v != 4 {
		t.Errorf("countdown = %d before first %v, want 4", v, CountdownInterval)
	}
}

func TestNoOverlapOnDoubleStart(t *testing.T) {
	d, sched := newTestDriver(DefaultSettings())

	d.StartFlat()
	d.StartFlat()
	if sched.ActiveTimers() != 1 || sched.PendingFrames() != 0 {
		t.Fatalf("after double start timers/frames = %d/%d, want 1/0",
			sched.ActiveTimers(), sched.PendingFrames())
	}

	runToMotion(sched)
	if sched.PendingFrames() != 1 {
		t.Fatalf("PendingFrames() = %d, want 1", sched.PendingFrames())
	}

	// Restart while running
	d.StartMountains()
	d.StartMountains()
	if sched.ActiveTimers() != 1 || sched.PendingFrames() != 0 {
		t.Fatalf("restart while running timers/frames = %d/%d, want 1/0",
			sched.ActiveTimers(), sched.PendingFrames())
	}

	runToMotion(sched)
	for i := 0; i < 10; i++ {
		if ran := sched.RunFrame(); ran != 1 {
			t.Fatalf("frame %d ran %d callbacks, want 1", i, ran)
		}
	}
}

func TestBallWrap(t *testing.T) {
	s := DefaultSettings()
	s.Height = 300
	d, sched := newTestDriver(s)
	d.StartFlat()
	runToMotion(sched)

	if _, _, r := d.Ball(); r != 15 {
		t.Fatalf("radius = %v, want 15", r)
	}

	d.ballX = 1014
	sched.RunFrame()
	if x, _, _ := d.Ball(); x != 1015 {
		t.Fatalf("ball x at bound = %v, want 1015", x)
	}

	if n := d.statWraps.Load(); n != 0 {
		t.Fatalf("wraps at bound = %d, want 0", n)
	}

	sched.RunFrame()
	if x, _, _ := d.Ball(); x != -15 {
		t.Fatalf("ball x after wrap = %v, want -15", x)
	}
	if n := d.statWraps.Load(); n != 1 {
		t.Errorf("wraps = %d, want 1", n)
	}

	sched.RunFrame()
	if x, _, _ := d.Ball(); x != -14 {
		t.Errorf("ball x after wrap frame = %v, want -14", x)
	}
}

func TestBallRidesPath(t *testing.T) {
	s := DefaultSettings()
	s.NumMountains = 4
	s.IncludePlateaus = true
	s.Speed = 7.5
	d, sched := newTestDriver(s)
	d.StartMountains()
	runToMotion(sched)

	for i := 0; i < 200; i++ {
		sched.Advance(16 * time.Millisecond)
		sched.RunFrame()
		x, y, _ := d.Ball()
		if want := path.HeightAt(x, d.Path(), s.Height); y != want {
			t.Fatalf("frame %d: y = %v, want HeightAt(%v) = %v", i, y, x, want)
		}
	}
}

func TestResetAndStop(t *testing.T) {
	d, sched := newTestDriver(DefaultSettings())
	d.StartMountains()
	runToMotion(sched)
	sched.RunFrame()

	d.Reset()
	if d.State() != StateIdle {
		t.Errorf("State() after Reset = %v, want idle", d.State())
	}
	if sched.PendingFrames() != 0 || sched.ActiveTimers() != 0 {
		t.Errorf("after Reset frames/timers = %d/%d, want 0/0", sched.PendingFrames(), sched.ActiveTimers())
	}
	x, y, r := d.Ball()
	if x != r || y != d.Path().HeightAt(r) {
		t.Errorf("ball after Reset = (%v,%v), want start of path", x, y)
	}
	if d.Path().Kind != path.KindMountains {
		t.Errorf("Reset replaced the path kind: %v", d.Path().Kind)
	}
	if !d.Snapshot().BallVisible {
		t.Error("ball hidden after Reset")
	}

	d.StartFlat()
	d.Stop()
	if d.State() != StateIdle || d.Snapshot().BallVisible {
		t.Errorf("after Stop state=%v visible=%v, want idle hidden", d.State(), d.Snapshot().BallVisible)
	}
	if sched.PendingFrames() != 0 || sched.ActiveTimers() != 0 {
		t.Errorf("after Stop frames/timers = %d/%d, want 0/0", sched.PendingFrames(), sched.ActiveTimers())
	}
	if ran := sched.RunFrame(); ran != 0 {
		t.Errorf("frames ran after Stop: %d", ran)
	}
}

func TestResizeKeepsKind(t *testing.T) {
	s := DefaultSettings()
	s.NumMountains = 3
	d, sched := newTestDriver(s)
	d.StartMountains()
	runToMotion(sched)

	d.Resize(600, 300)
	p := d.Path()
	if p.Kind != path.KindMountains || p.Width != 600 || p.Height != 300 {
		t.Errorf("path after resize = %v %vx%v, want mountains 600x300", p.Kind, p.Width, p.Height)
	}
	if d.State() != StateIdle || sched.PendingFrames() != 0 {
		t.Errorf("after resize state=%v frames=%d, want idle 0", d.State(), sched.PendingFrames())
	}
	if x, _, r := d.Ball(); r != 15 || x != 15 {
		t.Errorf("ball after resize x=%v r=%v, want 15,15", x, r)
	}

	d.Resize(400, 100)
	if got := d.Settings().Height; got != MinCanvasHeight {
		t.Errorf("height = %v, want minimum %v", got, MinCanvasHeight)
	}
}

func TestBeatsTriggerGlow(t *testing.T) {
	s := DefaultSettings()
	s.NumFingers = 3
	s.TempoBPM = 600
	d, sched := newTestDriver(s)

	var beats []tempo.Change
	d.OnBeat(func(c tempo.Change) { beats = append(beats, c) })
	d.StartFlat()
	runToMotion(sched)

	// Countdown outlasts the beat, so the first frame already changed finger
	if len(beats) != 1 {
		t.Fatalf("beats after first frame = %d, want 1", len(beats))
	}
	if g := d.Snapshot().Glow; g != 1 {
		t.Errorf("glow at change = %v, want 1", g)
	}

	sched.RunFrames(60, 16*time.Millisecond)
	if len(beats) < 8 {
		t.Errorf("beats after ~1s at 600bpm = %d, want >= 8", len(beats))
	}
	for i := 1; i < len(beats); i++ {
		if beats[i].Index == beats[i-1].Index {
			t.Fatalf("beat %d repeated finger %d", i, beats[i].Index)
		}
	}
}

func TestSettersClampAndRetune(t *testing.T) {
	d, sched := newTestDriver(DefaultSettings())
	d.StartFlat()
	runToMotion(sched)

	d.SetTempo(120)
	if got := d.color.BeatInterval(); got != 500*time.Millisecond {
		t.Errorf("interval after SetTempo = %v, want 500ms", got)
	}
	d.SetTempo(-1)
	if got := d.Settings().TempoBPM; got != 120 {
		t.Errorf("tempo after invalid SetTempo = %v, want 120", got)
	}

	d.SetFingerCount(9)
	if got := d.Settings().NumFingers; got != 4 {
		t.Errorf("NumFingers = %d, want 4", got)
	}
	d.SetFingerCount(0)
	if got := d.Settings().NumFingers; got != 1 {
		t.Errorf("NumFingers = %d, want 1", got)
	}

	d.SetSpeed(2.5)
	before, _, _ := d.Ball()
	sched.RunFrame()
	after, _, _ := d.Ball()
	if math.Abs(after-before-2.5) > 1e-9 {
		t.Errorf("advance = %v, want 2.5", after-before)
	}
}

func TestSetFingerColorsReportsError(t *testing.T) {
	d, _ := newTestDriver(DefaultSettings())
	if err := d.SetFingerColors([]string{"#ff0000", "nope"}); err == nil {
		t.Error("SetFingerColors err = nil, want decode error")
	}
	if got := d.Settings().FingerColors[1]; got != "nope" {
		t.Errorf("stored color = %q, want raw input kept", got)
	}
}

func TestSnapshotPulse(t *testing.T) {
	d, _ := newTestDriver(DefaultSettings())
	f := d.Snapshot()
	if f.PulsedRadius < f.Radius || f.PulsedRadius > f.Radius*(1+tempo.PulseMagnitude)+1e-9 {
		t.Errorf("PulsedRadius = %v, want within [%v, %v]", f.PulsedRadius, f.Radius, f.Radius*(1+tempo.PulseMagnitude))
	}
	if f.State != StateIdle || f.Path == nil || f.Sky == nil {
		t.Errorf("snapshot incomplete: %+v", f)
	}
}

func TestConfigureSwitchesPath(t *testing.T) {
	d, _ := newTestDriver(DefaultSettings())
	s := DefaultSettings()
	s.PathKind = path.KindMountains
	s.NumMountains = 2
	s.Width = 800
	s.Height = 320
	d.Configure(s)

	if p := d.Path(); p.Kind != path.KindMountains || p.Width != 800 {
		t.Errorf("path = %v w=%v, want mountains w=800", p.Kind, p.Width)
	}
	if d.State() != StateIdle {
		t.Errorf("State() = %v, want idle", d.State())
	}
}

func TestOnFrameFiresPerRunningFrame(t *testing.T) {
	d, sched := newTestDriver(DefaultSettings())

	frames := 0
	d.OnFrame(func() { frames++ })
	d.StartFlat()
	sched.Advance(CountdownInterval)
	if frames != 0 {
		t.Fatalf("frames during countdown = %d, want 0", frames)
	}

	sched.Advance((CountdownStart - 1) * CountdownInterval)
	if frames != 1 {
		t.Fatalf("frames on entering running = %d, want 1", frames)
	}
	sched.RunFrames(5, 16*time.Millisecond)
	if frames != 6 {
		t.Errorf("frames = %d, want 6", frames)
	}

	d.Stop()
	sched.RunFrames(3, 16*time.Millisecond)
	if frames != 6 {
		t.Errorf("frames after Stop = %d, want 6", frames)
	}
}
