package ring

import (
	"sync"
	"testing"
)

func TestTryPushPopFIFO(t *testing.T) {
	r := New[int](8)
	for i := 0; i < 5; i++ {
		if !r.TryPush(i) {
			t.Fatalf("push %d should have succeeded", i)
		}
	}
	for i := 0; i < 5; i++ {
		v, ok := r.TryPop()
		if !ok || v != i {
			t.Fatalf("expected %d, got %v ok=%v", i, v, ok)
		}
	}
	if _, ok := r.TryPop(); ok {
		t.Fatal("expected empty ring")
	}
}

func TestTryPushFullReturnsFalse(t *testing.T) {
	r := New[int](4) // rounds to 4
	for i := 0; i < 4; i++ {
		if !r.TryPush(i) {
			t.Fatalf("push %d should have succeeded", i)
		}
	}
	if r.TryPush(99) {
		t.Fatal("expected push to fail when ring is full")
	}
}

func TestCapacityRoundsToPowerOfTwo(t *testing.T) {
	r := New[int](10)
	if r.Cap() != 16 {
		t.Fatalf("expected capacity 16, got %v", r.Cap())
	}
}

func TestConcurrentProducerConsumerPreservesOrder(t *testing.T) {
	r := New[int](64)
	const n = 10000
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			for !r.TryPush(i) {
			}
		}
	}()
	got := make([]int, 0, n)
	go func() {
		defer wg.Done()
		for len(got) < n {
			if v, ok := r.TryPop(); ok {
				got = append(got, v)
			}
		}
	}()
	wg.Wait()
	for i, v := range got {
		if v != i {
			t.Fatalf("order violated at index %d: got %d", i, v)
		}
	}
}

func TestParameterClamps(t *testing.T) {
	p := NewParameter(5, 0, 1)
	if got := p.Load(); got != 1 {
		t.Fatalf("expected initial value clamped to 1, got %v", got)
	}
	p.Store(-5)
	if got := p.Load(); got != 0 {
		t.Fatalf("expected stored value clamped to 0, got %v", got)
	}
	p.Store(0.5)
	if got := p.Load(); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
}
