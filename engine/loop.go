package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultFrameInterval targets roughly 60 frames per second
const DefaultFrameInterval = 16 * time.Millisecond

// postBuffer bounds queued work from other goroutines
const postBuffer = 64

type loopTimer struct {
	interval time.Duration
	timer    *time.Timer
	fn       func()
}

// Loop is the real Scheduler: a single goroutine owns all scheduled callbacks
// Scheduler methods must be called from the loop goroutine (inside Post or a callback)
type Loop struct {
	frameInterval time.Duration

	posts    chan func()
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	// Owned by the loop goroutine
	nextID uint64
	frames map[FrameHandle]func()
	order  []FrameHandle
	timers map[TimerHandle]*loopTimer

	frameCount atomic.Uint64
}

// NewLoop creates a loop firing frames every frameInterval
func NewLoop(frameInterval time.Duration) *Loop {
	if frameInterval <= 0 {
		frameInterval = DefaultFrameInterval
	}
	return &Loop{
		frameInterval: frameInterval,
		posts:         make(chan func(), postBuffer),
		stopChan:      make(chan struct{}),
		frames:        make(map[FrameHandle]func()),
		timers:        make(map[TimerHandle]*loopTimer),
	}
}

// Start begins the loop goroutine
func (l *Loop) Start() {
	if l.running.CompareAndSwap(false, true) {
		l.wg.Add(1)
		go l.run()
	}
}

// Stop halts the loop and all pending timers; queued posts are dropped
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopChan)
		if l.running.Load() {
			l.wg.Wait()
		}
	})
}

// Post queues fn to run on the loop goroutine; returns false once stopped
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.stopChan:
		return false
	default:
	}
	select {
	case l.posts <- fn:
		return true
	case <-l.stopChan:
		return false
	}
}

// Do runs fn on the loop goroutine and waits for it to finish
func (l *Loop) Do(fn func()) bool {
	done := make(chan struct{})
	if !l.Post(func() {
		defer close(done)
		fn()
	}) {
		return false
	}
	select {
	case <-done:
		return true
	case <-l.stopChan:
		return false
	}
}

// FrameInterval returns the configured frame period
func (l *Loop) FrameInterval() time.Duration {
	return l.frameInterval
}

// Frames returns how many frame batches have run
func (l *Loop) Frames() uint64 {
	return l.frameCount.Load()
}

func (l *Loop) run() {
	defer l.wg.Done()
	defer l.stopTimers()

	ticker := time.NewTicker(l.frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case fn := <-l.posts:
			l.safeCall(fn)
		case <-ticker.C:
			l.runFrames()
		}
	}
}

func (l *Loop) safeCall(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("loop callback panicked")
		}
	}()
	fn()
}

// runFrames fires the frames pending at tick start; frames scheduled meanwhile wait a tick
func (l *Loop) runFrames() {
	if len(l.order) == 0 {
		return
	}
	order := l.order
	l.order = nil
	l.frameCount.Add(1)

	for _, h := range order {
		fn, ok := l.frames[h]
		if !ok {
			continue
		}
		delete(l.frames, h)
		l.safeCall(fn)
	}
}

func (l *Loop) id() uint64 {
	l.nextID++
	return l.nextID
}

func (l *Loop) ScheduleFrame(fn func()) FrameHandle {
	h := FrameHandle(l.id())
	l.frames[h] = fn
	l.order = append(l.order, h)
	return h
}

func (l *Loop) CancelFrame(h FrameHandle) {
	delete(l.frames, h)
}

func (l *Loop) ScheduleInterval(d time.Duration, fn func()) TimerHandle {
	h := TimerHandle(l.id())
	lt := &loopTimer{interval: d, fn: fn}
	lt.timer = time.AfterFunc(d, func() {
		l.Post(func() { l.fireTimer(h) })
	})
	l.timers[h] = lt
	return h
}

func (l *Loop) CancelTimer(h TimerHandle) {
	if lt, ok := l.timers[h]; ok {
		lt.timer.Stop()
		delete(l.timers, h)
	}
}

// fireTimer runs on the loop; a timer cancelled after its tick was queued is skipped here
func (l *Loop) fireTimer(h TimerHandle) {
	lt, ok := l.timers[h]
	if !ok {
		return
	}
	lt.timer.Reset(lt.interval)
	l.safeCall(lt.fn)
}

func (l *Loop) stopTimers() {
	for h, lt := range l.timers {
		lt.timer.Stop()
		delete(l.timers, h)
	}
}
