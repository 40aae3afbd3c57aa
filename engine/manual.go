package engine

import (
	"time"

	"github.com/lixenwraith/fingerpath/clock"
)

type manualTimer struct {
	interval time.Duration
	due      time.Time
	fn       func()
}

// ManualScheduler is a deterministic Scheduler for tests and offline stepping
// Time moves only through Advance; frames run only through RunFrame.
type ManualScheduler struct {
	clock  *clock.Mock
	nextID uint64

	frames map[FrameHandle]func()
	order  []FrameHandle
	timers map[TimerHandle]*manualTimer
}

// NewManualScheduler drives callbacks from clk
func NewManualScheduler(clk *clock.Mock) *ManualScheduler {
	return &ManualScheduler{
		clock:  clk,
		frames: make(map[FrameHandle]func()),
		timers: make(map[TimerHandle]*manualTimer),
	}
}

// Clock returns the mock clock the scheduler advances
func (s *ManualScheduler) Clock() *clock.Mock {
	return s.clock
}

func (s *ManualScheduler) id() uint64 {
	s.nextID++
	return s.nextID
}

func (s *ManualScheduler) ScheduleFrame(fn func()) FrameHandle {
	h := FrameHandle(s.id())
	s.frames[h] = fn
	s.order = append(s.order, h)
	return h
}

func (s *ManualScheduler) CancelFrame(h FrameHandle) {
	delete(s.frames, h)
}

func (s *ManualScheduler) ScheduleInterval(d time.Duration, fn func()) TimerHandle {
	h := TimerHandle(s.id())
	s.timers[h] = &manualTimer{interval: d, due: s.clock.Now().Add(d), fn: fn}
	return h
}

func (s *ManualScheduler) CancelTimer(h TimerHandle) {
	delete(s.timers, h)
}

// RunFrame fires the frames pending now, returning how many ran
func (s *ManualScheduler) RunFrame() int {
	order := s.order
	s.order = nil

	ran := 0
	for _, h := range order {
		fn, ok := s.frames[h]
		if !ok {
			continue
		}
		delete(s.frames, h)
		fn()
		ran++
	}
	return ran
}

// RunFrames advances the clock by step before each of n frames
func (s *ManualScheduler) RunFrames(n int, step time.Duration) {
	for i := 0; i < n; i++ {
		s.Advance(step)
		s.RunFrame()
	}
}

// Advance moves the clock forward by d, firing due timers in deadline order
func (s *ManualScheduler) Advance(d time.Duration) {
	target := s.clock.Now().Add(d)
	for {
		t := s.earliestDue(target)
		if t == nil {
			break
		}
		s.clock.Set(t.due)
		t.due = t.due.Add(t.interval)
		t.fn()
	}
	s.clock.Set(target)
}

func (s *ManualScheduler) earliestDue(limit time.Time) *manualTimer {
	var (
		bestH TimerHandle
		best  *manualTimer
	)
	for h, t := range s.timers {
		if t.due.After(limit) {
			continue
		}
		if best == nil || t.due.Before(best.due) || (t.due.Equal(best.due) && h < bestH) {
			bestH, best = h, t
		}
	}
	return best
}

// PendingFrames returns the number of frames waiting to run
func (s *ManualScheduler) PendingFrames() int {
	return len(s.frames)
}

// ActiveTimers returns the number of live interval callbacks
func (s *ManualScheduler) ActiveTimers() int {
	return len(s.timers)
}
