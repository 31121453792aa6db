package cache

import (
	"context"
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	createdAt time.Time
}

// Memory is an in-process Store guarded by a single mutex.
// There is no eviction policy beyond TTL: memory is bounded only by the sweep of
// expired entries, not by a capacity limit.
type Memory[V any] struct {
	mu        sync.Mutex
	entries   map[string]entry[V]
	ttl       time.Duration
	threshold int
	now       func() time.Time
}

// MemoryOption customises a Memory store
type MemoryOption[V any] func(*Memory[V])

// WithTTL overrides DefaultTTL.
func WithTTL[V any](ttl time.Duration) MemoryOption[V] {
	return func(m *Memory[V]) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithSweepThreshold overrides DefaultSweepThreshold.
func WithSweepThreshold[V any](n int) MemoryOption[V] {
	return func(m *Memory[V]) {
		if n > 0 {
			m.threshold = n
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock[V any](now func() time.Time) MemoryOption[V] {
	return func(m *Memory[V]) {
		m.now = now
	}
}

// NewMemory creates an empty in-process store.
func NewMemory[V any](opts ...MemoryOption[V]) *Memory[V] {
	m := &Memory[V]{
		entries:   make(map[string]entry[V]),
		ttl:       DefaultTTL,
		threshold: DefaultSweepThreshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns a live entry. An expired entry is removed and reported as absent.
func (m *Memory[V]) Get(_ context.Context, key string) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if m.expired(e) {
		delete(m.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Put stores value and sweeps expired entries once the store grows past its threshold.
func (m *Memory[V]) Put(_ context.Context, key string, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = entry[V]{value: value, createdAt: m.now()}
	if len(m.entries) > m.threshold {
		m.sweepLocked()
	}
}

// Len reports the number of stored entries, expired or not.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Sweep removes every expired entry and returns how many were removed.
func (m *Memory[V]) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweepLocked()
}

func (m *Memory[V]) sweepLocked() int {
	removed := 0
	for k, e := range m.entries {
		if m.expired(e) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed
}

func (m *Memory[V]) expired(e entry[V]) bool {
	return m.now().Sub(e.createdAt) >= m.ttl
}
