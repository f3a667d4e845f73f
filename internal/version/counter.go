// Package version implements the change version counter the dashboard
// clients poll. A single process-wide integer is bumped by exactly one on
// every successful mutation; clients re-fetch when the value they hold is
// behind. The counter is not persisted and restarts at 1, so a client must
// treat a decrease as "everything changed".
package version

import (
	"sync"
	"sync/atomic"
)

// Mutation scopes. All scopes invalidate everything today; the typed event
// leaves room to narrow invalidation later.
const (
	ScopeTransactions = "transactions"
	ScopeNotes        = "notes"
	ScopeRecurring    = "recurring"
	ScopeCategories   = "categories"
	ScopeInvestors    = "investors"
)

// DataChanged is published on every bump.
type DataChanged struct {
	Scope   string
	Version int64
}

// Counter is an atomic change-sequence number starting at 1.
type Counter struct {
	v atomic.Int64

	mu   sync.RWMutex
	subs []func(DataChanged)
}

// NewCounter returns a counter initialized to 1.
func NewCounter() *Counter {
	c := &Counter{}
	c.v.Store(1)
	return c
}

// Current returns the current value.
func (c *Counter) Current() int64 {
	return c.v.Load()
}

// Bump increments the counter by exactly 1 and notifies subscribers.
// It returns the new value.
func (c *Counter) Bump(scope string) int64 {
	v := c.v.Add(1)

	c.mu.RLock()
	subs := c.subs
	c.mu.RUnlock()
	for _, fn := range subs {
		fn(DataChanged{Scope: scope, Version: v})
	}
	return v
}

// Subscribe registers a callback invoked synchronously on every bump.
func (c *Counter) Subscribe(fn func(DataChanged)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// Reset puts the counter back to 1. For tests.
func (c *Counter) Reset() {
	c.v.Store(1)
}
