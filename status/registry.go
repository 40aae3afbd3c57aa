// Package status holds lock-free runtime counters shared between the driver and front-ends.
package status

import "sync/atomic"

// Well-known metric keys
const (
	KeyFrames        = "driver.frames"
	KeyBeats         = "driver.beats"
	KeyWraps         = "driver.wraps"
	KeyStarts        = "driver.starts"
	KeyCountdownTick = "driver.countdown_ticks"
	KeyState         = "driver.state"
	KeyTempo         = "driver.tempo_bpm"
	KeyClients       = "server.clients"
	KeyDropped       = "server.dropped"
)

// Registry groups metrics by value type
// Writers cache the pointer returned from Get during setup and update atomically afterwards
type Registry struct {
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[Float]
	Strings *MetricMap[String]
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[Float](),
		Strings: NewMetricMap[String](),
	}
}

// Snapshot copies every metric into a plain map for reporting
func (r *Registry) Snapshot() map[string]any {
	out := make(map[string]any, r.Ints.Count()+r.Floats.Count()+r.Strings.Count())
	r.Ints.Range(func(k string, v *atomic.Int64) { out[k] = v.Load() })
	r.Floats.Range(func(k string, v *Float) { out[k] = v.Load() })
	r.Strings.Range(func(k string, v *String) { out[k] = v.Load() })
	return out
}
