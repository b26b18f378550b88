package ring

import "sync/atomic"

// atomicU64 wraps atomic.Uint64 with named Acquire/Release accessors so
// the intent at each SPSC call site (plain load vs. cross-thread
// handoff) is visible without re-deriving it from the memory model
// every time.
type atomicU64 struct {
	v atomic.Uint64
}

func (a *atomicU64) load() uint64          { return a.v.Load() }
func (a *atomicU64) loadAcquire() uint64   { return a.v.Load() }
func (a *atomicU64) storeRelease(x uint64) { a.v.Store(x) }
