// Package testutil provides deterministic substitutes for the clock and
// request-id sources used in production.
package testutil

import (
	"fmt"
	"sync"
	"time"

	"github.com/backdesk/backdesk/internal/model"
)

// FixedClock returns a fixed RFC 3339 timestamp from every Now call.
//
// Records created under a FixedClock carry identical created_at values,
// which keeps golden traces and round-trip comparisons stable.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu sync.Mutex
	ts string
}

// NewFixedClock creates a clock pinned to ts, which must be a valid
// RFC 3339 string. Panics on an invalid timestamp: a malformed fixed clock
// is a test bug, not a runtime condition.
func NewFixedClock(ts string) *FixedClock {
	if _, err := time.Parse(model.TimeFormat, ts); err != nil {
		panic(fmt.Sprintf("testutil: invalid fixed timestamp %q: %v", ts, err))
	}
	return &FixedClock{ts: ts}
}

// Now returns the pinned timestamp.
func (c *FixedClock) Now() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ts
}

// Advance moves the pinned timestamp forward by d.
// Useful when a test needs distinguishable created_at values.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, _ := time.Parse(model.TimeFormat, c.ts)
	c.ts = t.Add(d).UTC().Format(model.TimeFormat)
}
