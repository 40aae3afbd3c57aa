package status

import (
	"sync"
	"testing"
)

func TestGetReturnsSameCell(t *testing.T) {
	r := NewRegistry()
	a := r.Ints.Get(KeyFrames)
	b := r.Ints.Get(KeyFrames)
	if a != b {
		t.Error("Get returned different cells for the same key")
	}
	a.Add(3)
	if got := b.Load(); got != 3 {
		t.Errorf("cached cell = %d, want 3", got)
	}
}

func TestConcurrentGet(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Ints.Get(KeyBeats).Add(1)
		}()
	}
	wg.Wait()
	if got := r.Ints.Get(KeyBeats).Load(); got != 16 {
		t.Errorf("beats = %d, want 16", got)
	}
	if got := r.Ints.Count(); got != 1 {
		t.Errorf("Count() = %d, want 1", got)
	}
}

func TestSnapshot(t *testing.T) {
	r := NewRegistry()
	r.Ints.Get(KeyWraps).Store(2)
	r.Floats.Get(KeyTempo).Store(40)
	r.Strings.Get(KeyState).Store("running")

	snap := r.Snapshot()
	if snap[KeyWraps] != int64(2) {
		t.Errorf("snapshot wraps = %v, want 2", snap[KeyWraps])
	}
	if snap[KeyTempo] != 40.0 {
		t.Errorf("snapshot tempo = %v, want 40", snap[KeyTempo])
	}
	if snap[KeyState] != "running" {
		t.Errorf("snapshot state = %v, want running", snap[KeyState])
	}
}

func TestKeysSorted(t *testing.T) {
	m := NewMetricMap[Float]()
	m.Get("b")
	m.Get("a")
	m.Get("c")
	keys := m.Keys()
	if keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Errorf("Keys() = %v, want sorted", keys)
	}
}

func TestZeroValues(t *testing.T) {
	var f Float
	var s String
	if f.Load() != 0 || s.Load() != "" {
		t.Errorf("zero values = %v,%q, want 0,\"\"", f.Load(), s.Load())
	}
}
