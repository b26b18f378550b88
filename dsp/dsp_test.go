package dsp

import "testing"

func TestSmootherConvergence(t *testing.T) {
	s := NewSmoother(0)
	s.SetTime(0.1, 48000)
	s.SetTarget(1)
	settleSamples := int(0.1 * 48000)
	for i := 0; i < settleSamples; i++ {
		s.Next()
	}
	got := s.Value()
	if got < 0.6 || got > 0.66 {
		t.Fatalf("expected ~0.632 after one settling time, got %v", got)
	}
}

func TestSmootherImmediate(t *testing.T) {
	s := NewSmoother(0)
	s.SetTarget(5)
	if v := s.Next(); v != 5 {
		t.Fatalf("expected immediate jump to target with coeff=1, got %v", v)
	}
}

func TestSoftClipBounded(t *testing.T) {
	for _, x := range []float32{-100, -1, 0, 1, 100} {
		y := SoftClip(x)
		if y < -1 || y > 1 {
			t.Fatalf("SoftClip(%v) = %v out of [-1,1]", x, y)
		}
	}
}

func TestSoftClipMonotonic(t *testing.T) {
	prev := SoftClip(-5)
	for x := float32(-4.9); x <= 5; x += 0.1 {
		cur := SoftClip(x)
		if cur < prev {
			t.Fatalf("SoftClip not monotonic at x=%v", x)
		}
		prev = cur
	}
}

func TestAtomicFloat32RoundTrip(t *testing.T) {
	a := NewAtomicFloat32(1.25)
	if got := a.Load(); got != 1.25 {
		t.Fatalf("expected 1.25, got %v", got)
	}
	a.Store(-3.5)
	if got := a.Load(); got != -3.5 {
		t.Fatalf("expected -3.5, got %v", got)
	}
}

func TestMicrosecondsToSamples(t *testing.T) {
	if got := MicrosecondsToSamples(1e6, 48000); got != 48000 {
		t.Fatalf("expected 48000 samples for 1s at 48kHz, got %v", got)
	}
}

func TestSamplesPerBeat(t *testing.T) {
	got := SamplesPerBeat(120, 48000)
	want := float32(24000)
	if got != want {
		t.Fatalf("expected %v samples per beat at 120bpm/48kHz, got %v", want, got)
	}
}

func TestFlushDenormal(t *testing.T) {
	if FlushDenormal(1e-25) != 0 {
		t.Fatal("expected denormal flushed to zero")
	}
	if FlushDenormal(0.5) != 0.5 {
		t.Fatal("expected normal value unchanged")
	}
}
