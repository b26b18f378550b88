package fx

import "testing"

func TestDelayPassthroughWhenZeroMix(t *testing.T) {
	d := NewDelay(48000)
	d.Enabled = true
	d.SetTimeMS(100)
	d.Mix = 0
	for i := 0; i < 10; i++ {
		out := d.Process(0.5)
		if out != 0.5 {
			t.Fatalf("expected dry passthrough 0.5, got %v", out)
		}
	}
}

func TestDelayProducesEchoAfterLatency(t *testing.T) {
	d := NewDelay(48000)
	d.Enabled = true
	d.SetTimeMS(10) // 480 samples
	d.length.SetImmediate(480)
	d.Feedback = 0
	d.Mix = 1
	d.Process(1.0)
	for i := 0; i < 479; i++ {
		d.Process(0)
	}
	out := d.Process(0)
	if out < 0.9 {
		t.Fatalf("expected echo of the impulse near sample 480, got %v", out)
	}
}

func TestReverbStaysBounded(t *testing.T) {
	r := NewReverb(48000)
	r.Enabled = true
	r.RoomSize = 0.9
	r.Damping = 0.3
	r.Mix = 1
	for i := 0; i < 48000; i++ {
		in := float32(0)
		if i%100 == 0 {
			in = 1
		}
		out := r.Process(in)
		if out != out { // NaN check
			t.Fatalf("reverb produced NaN at sample %d", i)
		}
		if out > 10 || out < -10 {
			t.Fatalf("reverb output diverged at sample %d: %v", i, out)
		}
	}
}

func TestChainPassesThroughDisabledStages(t *testing.T) {
	var c Chain
	d := NewDelay(48000)
	d.Enabled = false
	d.Mix = 1
	c.Add(WrapDelay(d))
	out := c.Process(0.42)
	if out != 0.42 {
		t.Fatalf("expected passthrough when disabled, got %v", out)
	}
}

func TestChainLatencySums(t *testing.T) {
	var c Chain
	c.Add(WrapDelay(NewDelay(48000)))
	c.Add(WrapReverb(NewReverb(48000)))
	if got := c.LatencySamples(); got != 0 {
		t.Fatalf("expected zero total latency for color effects, got %v", got)
	}
}
