package engine

import "time"

// FrameHandle identifies a pending one-shot frame callback; zero is never issued
type FrameHandle uint64

// TimerHandle identifies a repeating interval callback; zero is never issued
type TimerHandle uint64

// Scheduler abstracts display-frame and interval callbacks
// Cancellation is synchronous: once Cancel returns the callback will not run.
// Cancelling a zero or unknown handle is a no-op.
type Scheduler interface {
	// ScheduleFrame runs fn once on the next frame
	ScheduleFrame(fn func()) FrameHandle
	CancelFrame(h FrameHandle)

	// ScheduleInterval runs fn every d until cancelled
	ScheduleInterval(d time.Duration, fn func()) TimerHandle
	CancelTimer(h TimerHandle)
}
