package cache

import (
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

const defaultCapacity = 256

type entry[V any] struct {
	stamp Stamp
	value V
}

// Memo caches fn(args) keyed by the argument and the generation stamp of the
// kinds fn reads. fn must be pure given its argument and that data: anything
// else it depends on (wall clock, session) has to be part of K.
type Memo[K comparable, V any] struct {
	name     string
	gens     *Generations
	kinds    []Kind
	fn       func(K) (V, error)
	capacity int

	mu      sync.Mutex
	entries map[K]entry[V]
	order   []K
	group   singleflight.Group

	hits   atomic.Uint64
	misses atomic.Uint64
}

type MemoOption func(*memoConfig)

type memoConfig struct {
	capacity int
}

// WithCapacity bounds the number of distinct arguments kept.
func WithCapacity(n int) MemoOption {
	return func(c *memoConfig) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// NewMemo wraps fn. kinds must list every entity kind fn reads, directly or
// through another Memo.
func NewMemo[K comparable, V any](name string, gens *Generations, kinds []Kind, fn func(K) (V, error), opts ...MemoOption) *Memo[K, V] {
	cfg := memoConfig{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	m := &Memo[K, V]{
		name:     name,
		gens:     gens,
		kinds:    kinds,
		fn:       fn,
		capacity: cfg.capacity,
		entries:  make(map[K]entry[V]),
	}
	gens.track(m)
	return m
}

// Get returns the cached value for args if none of the dependency kinds
// changed since it was computed, and computes it otherwise. A result is only
// cached when the stamp is unchanged across the computation; errors are
// never cached.
func (m *Memo[K, V]) Get(args K) (V, error) {
	before := m.gens.Stamp(m.kinds...)

	m.mu.Lock()
	if e, ok := m.entries[args]; ok && e.stamp == before {
		m.mu.Unlock()
		m.hits.Add(1)
		return e.value, nil
	}
	m.mu.Unlock()
	m.misses.Add(1)

	key := fmt.Sprintf("%v|%v", args, before)
	res, err, _ := m.group.Do(key, func() (interface{}, error) {
		v, err := m.fn(args)
		if err != nil {
			return v, err
		}
		if m.gens.Stamp(m.kinds...) == before {
			m.store(args, before, v)
		}
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	v, _ := res.(V)
	return v, nil
}

func (m *Memo[K, V]) store(args K, stamp Stamp, v V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[args]; !ok {
		for len(m.order) >= m.capacity {
			oldest := m.order[0]
			m.order = m.order[1:]
			delete(m.entries, oldest)
		}
		m.order = append(m.order, args)
	}
	m.entries[args] = entry[V]{stamp: stamp, value: v}
}

// Stats reports cache effectiveness.
type Stats struct {
	Name    string `json:"name"`
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

func (m *Memo[K, V]) Stats() Stats {
	m.mu.Lock()
	n := len(m.entries)
	m.mu.Unlock()
	return Stats{Name: m.name, Entries: n, Hits: m.hits.Load(), Misses: m.misses.Load()}
}

// StatsReporter is implemented by every Memo regardless of type parameters.
type StatsReporter interface {
	Stats() Stats
}
