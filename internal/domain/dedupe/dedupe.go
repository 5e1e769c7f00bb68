// Package dedupe tracks in-flight assessment jobs so the same
// (fellow, week) pair is never queued twice concurrently.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Guard records keys that are currently being processed.
type Guard interface {
	// Acquire atomically records key as in flight. Returns false if the
	// key is already in flight.
	Acquire(ctx context.Context, key string) bool

	// Release removes key, allowing it to be queued again. Releasing an
	// unknown key is a no-op.
	Release(ctx context.Context, key string)

	// Size returns the number of in-flight keys.
	Size() int64
}

type inMemoryGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
	size   atomic.Int64
}

// NewInMemoryGuard creates an in-memory guard. Entries live only while
// a job is in flight, so the set stays small and needs no eviction.
func NewInMemoryGuard() Guard {
	return &inMemoryGuard{active: make(map[string]struct{})}
}

func (g *inMemoryGuard) Acquire(_ context.Context, key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.active[key]; exists {
		return false
	}
	g.active[key] = struct{}{}
	g.size.Add(1)
	return true
}

func (g *inMemoryGuard) Release(_ context.Context, key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.active[key]; exists {
		delete(g.active, key)
		g.size.Add(-1)
	}
}

func (g *inMemoryGuard) Size() int64 {
	return g.size.Load()
}
