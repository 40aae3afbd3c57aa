package clock

import (
	"sync"
	"time"
)

// Provider supplies the current time to timing-sensitive components
type Provider interface {
	Now() time.Time
}

// Monotonic provides the real system time with monotonic clock readings
type Monotonic struct{}

// NewMonotonic creates a new monotonic time provider
func NewMonotonic() *Monotonic {
	return &Monotonic{}
}

// Now returns the current time with monotonic clock reading
func (Monotonic) Now() time.Time {
	return time.Now()
}

// Mock provides a controllable time source for testing
type Mock struct {
	mu          sync.RWMutex
	currentTime time.Time
}

// NewMock creates a mock clock starting at startTime
func NewMock(startTime time.Time) *Mock {
	return &Mock{currentTime: startTime}
}

// Now returns the current mocked time
func (m *Mock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

// Set moves the mock to t, backwards moves included
func (m *Mock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = t
}

// Advance moves the mock forward by d
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}
