// Package ring provides the bounded single-producer/single-consumer
// queues that carry commands, MIDI events and notifications across the
// control/input/audio boundary. Every operation here is non-blocking
// and allocation-free once the ring is constructed:
// TryPush fails on a full ring, TryPop returns ok=false on an empty
// one. Within one ring, FIFO order is guaranteed; there is no ordering
// guarantee across rings.
package ring

// SPSC is a bounded FIFO with power-of-two capacity, safe for exactly
// one producer and one consumer goroutine running concurrently. It
// never allocates after New and never blocks.
type SPSC[T any] struct {
	buf      []T
	mask     uint64
	writePos atomicU64
	readPos  atomicU64
}

// New creates a ring whose capacity is rounded up to the next power of
// two (minimum 2).
func New[T any](capacity int) *SPSC[T] {
	cap := nextPowerOfTwo(capacity)
	if cap < 2 {
		cap = 2
	}
	return &SPSC[T]{
		buf:  make([]T, cap),
		mask: uint64(cap - 1),
	}
}

// Cap returns the ring's capacity.
func (r *SPSC[T]) Cap() int { return len(r.buf) }

// TryPush appends v if there is room. Returns false, without
// blocking or allocating, if the ring is full. The caller (the
// producer) is responsible for dropping or surfacing the overflow.
func (r *SPSC[T]) TryPush(v T) bool {
	w := r.writePos.load()
	rd := r.readPos.loadAcquire()
	if w-rd >= uint64(len(r.buf)) {
		return false
	}
	r.buf[w&r.mask] = v
	r.writePos.storeRelease(w + 1)
	return true
}

// TryPop removes and returns the oldest element. ok is false if the
// ring is empty.
func (r *SPSC[T]) TryPop() (v T, ok bool) {
	rd := r.readPos.load()
	w := r.writePos.loadAcquire()
	if rd == w {
		return v, false
	}
	v = r.buf[rd&r.mask]
	r.readPos.storeRelease(rd + 1)
	return v, true
}

// Len returns a snapshot of how many elements are currently queued.
// Exact only when called from either the producer or the consumer;
// from a third goroutine it is merely an estimate.
func (r *SPSC[T]) Len() int {
	w := r.writePos.loadAcquire()
	rd := r.readPos.loadAcquire()
	return int(w - rd)
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
