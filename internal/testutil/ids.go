package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates predictable request ids ("req-1", "req-2", ...)
// in place of the production UUID generator. This keeps logged and traced
// request ids stable across test runs.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequentialIDs struct {
	mu sync.Mutex
	n  int
}

// NewSequentialIDs creates a generator starting at "req-1".
func NewSequentialIDs() *SequentialIDs {
	return &SequentialIDs{}
}

// NewID returns the next sequential id.
func (g *SequentialIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("req-%d", g.n)
}
