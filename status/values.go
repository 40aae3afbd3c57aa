package status

import (
	"math"
	"sync/atomic"
)

// Float is an atomic float64; zero value reads 0
type Float struct {
	bits atomic.Uint64
}

func (f *Float) Store(v float64) { f.bits.Store(math.Float64bits(v)) }
func (f *Float) Load() float64   { return math.Float64frombits(f.bits.Load()) }

// String is an atomic string; zero value reads ""
type String struct {
	ptr atomic.Pointer[string]
}

func (s *String) Store(v string) { s.ptr.Store(&v) }

func (s *String) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}
