// Package cache tracks a generation counter per entity kind and memoizes read
// functions against those counters, so a completed write is visible to every
// read issued after it without evicting cached results one by one.
package cache

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Kind identifies an entity table. The declaration order is also the lock
// order for operations that span several kinds.
type Kind int

const (
	KindUser Kind = iota
	KindCustomer
	KindProduct
	KindPriceList
	KindOrder
	KindOrderItem
	KindPayment

	kindCount
)

var kindNames = [kindCount]string{
	"users", "customers", "products", "price_lists", "orders", "order_items", "payments",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Kinds lists every entity kind in lock order.
func Kinds() []Kind {
	out := make([]Kind, kindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// Stamp is a comparable snapshot of generation counters. Kinds not requested
// when the stamp was taken stay zero.
type Stamp [kindCount]uint64

// Generations holds one monotonically increasing counter per kind.
type Generations struct {
	counters [kindCount]atomic.Uint64

	mu    sync.Mutex
	memos []StatsReporter
}

func NewGenerations() *Generations {
	return &Generations{}
}

// Bump increments the counter for kind and returns the new value. Only the
// store's mutation paths call it, while holding the kind's write lock.
func (g *Generations) Bump(kind Kind) uint64 {
	return g.counters[kind].Add(1)
}

func (g *Generations) Current(kind Kind) uint64 {
	return g.counters[kind].Load()
}

func (g *Generations) Stamp(kinds ...Kind) Stamp {
	var s Stamp
	for _, k := range kinds {
		s[k] = g.counters[k].Load()
	}
	return s
}

// Snapshot returns every counter by kind name.
func (g *Generations) Snapshot() map[string]uint64 {
	out := make(map[string]uint64, kindCount)
	for _, k := range Kinds() {
		out[k.String()] = g.Current(k)
	}
	return out
}

func (g *Generations) track(r StatsReporter) {
	g.mu.Lock()
	g.memos = append(g.memos, r)
	g.mu.Unlock()
}

// MemoStats reports every Memo built on these generations.
func (g *Generations) MemoStats() []Stats {
	g.mu.Lock()
	memos := append([]StatsReporter(nil), g.memos...)
	g.mu.Unlock()

	out := make([]Stats, 0, len(memos))
	for _, m := range memos {
		out = append(out, m.Stats())
	}
	return out
}
