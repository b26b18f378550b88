package synth

import "testing"

func defaultGlobals() GlobalParams {
	return GlobalParams{
		MasterVolume:    1,
		FilterType:      LowPass,
		FilterCutoff:    20000,
		FilterResonance: 0.7,
		FilterEnabled:   true,
		Attack:          0.01,
		Decay:           0.1,
		Sustain:         0.7,
		Release:         0.2,
		OscKind:         Sine,
	}
}

func TestVoiceTriggerActivatesAndReleasesToIdle(t *testing.T) {
	v := NewVoice(48000)
	g := defaultGlobals()
	v.ApplyGlobals(&g)
	if v.Active() {
		t.Fatal("fresh voice should be idle")
	}
	v.Trigger(60, 100, true)
	if !v.Active() {
		t.Fatal("voice should be active after Trigger")
	}
	for i := 0; i < 20000; i++ {
		v.Next()
	}
	v.Release()
	for i := 0; i < int(48000*0.3); i++ {
		v.Next()
	}
	if v.Active() {
		t.Fatal("voice should have reached idle after release completes")
	}
}

func TestVoiceForceStopFadesQuickly(t *testing.T) {
	v := NewVoice(48000)
	g := defaultGlobals()
	v.ApplyGlobals(&g)
	v.Trigger(60, 127, true)
	for i := 0; i < 5000; i++ {
		v.Next()
	}
	v.ForceStop(240)
	for i := 0; i < 241; i++ {
		v.Next()
	}
	if v.Active() {
		t.Fatal("voice should be idle after the forced fade completes")
	}
}

func TestVoiceProducesBoundedOutput(t *testing.T) {
	v := NewVoice(48000)
	g := defaultGlobals()
	g.OscKind = Square
	v.ApplyGlobals(&g)
	v.Trigger(69, 127, true)
	for i := 0; i < 48000; i++ {
		l, r := v.Next()
		if l != l || r != r {
			t.Fatalf("voice produced NaN at sample %d", i)
		}
		if l > 4 || l < -4 || r > 4 || r < -4 {
			t.Fatalf("voice output diverged at sample %d: %v %v", i, l, r)
		}
	}
}

func TestEqualPowerPanCenterIsHalfPower(t *testing.T) {
	l, r := equalPowerPan(0)
	if diff := l - r; diff > 1e-5 || diff < -1e-5 {
		t.Fatalf("expected equal left/right at center pan, got %v %v", l, r)
	}
	sumSq := l*l + r*r
	if diff := sumSq - 1; diff > 1e-4 || diff < -1e-4 {
		t.Fatalf("expected constant power 1, got %v", sumSq)
	}
}

func TestEqualPowerPanExtremesIsolateChannel(t *testing.T) {
	l, r := equalPowerPan(-1)
	if r > 1e-4 {
		t.Fatalf("expected right near zero at full left pan, got %v", r)
	}
	if l < 0.99 {
		t.Fatalf("expected left near unity at full left pan, got %v", l)
	}
}
