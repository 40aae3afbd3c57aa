package status

import (
	"sort"
	"sync"
)

// MetricMap is a get-or-create table of metric cells of type T
type MetricMap[T any] struct {
	mu    sync.RWMutex
	cells map[string]*T
}

// NewMetricMap creates an empty MetricMap
func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{cells: make(map[string]*T)}
}

// Get returns the cell for key, allocating it on first use
func (m *MetricMap[T]) Get(key string) *T {
	m.mu.RLock()
	cell, ok := m.cells[key]
	m.mu.RUnlock()
	if ok {
		return cell
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if cell, ok = m.cells[key]; ok {
		return cell
	}
	cell = new(T)
	m.cells[key] = cell
	return cell
}

// Keys returns registered keys in sorted order
func (m *MetricMap[T]) Keys() []string {
	m.mu.RLock()
	keys := make([]string, 0, len(m.cells))
	for k := range m.cells {
		keys = append(keys, k)
	}
	m.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Range visits cells in sorted key order
func (m *MetricMap[T]) Range(fn func(key string, cell *T)) {
	for _, k := range m.Keys() {
		m.mu.RLock()
		cell := m.cells[k]
		m.mu.RUnlock()
		fn(k, cell)
	}
}

// Count returns the number of registered cells
func (m *MetricMap[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cells)
}
