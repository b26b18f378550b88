package synth

import "testing"

func newTestManager(voices int, mode PolyMode) *VoiceManager {
	vm := NewVoiceManager(voices, 48000)
	vm.PolyMode = mode
	g := defaultGlobals()
	vm.SetGlobals(g)
	vm.ApplyGlobalsToAll()
	return vm
}

func TestPolyAllocatesDistinctVoices(t *testing.T) {
	vm := newTestManager(4, Poly)
	vm.NoteOn(60, 100)
	vm.NoteOn(64, 100)
	active := 0
	for _, v := range vm.Voices() {
		if v.Active() {
			active++
		}
	}
	if active != 2 {
		t.Fatalf("expected 2 active voices, got %d", active)
	}
}

func TestPolyStealsOldestWhenExhausted(t *testing.T) {
	vm := newTestManager(2, Poly)
	vm.NoteOn(60, 100)
	vm.NoteOn(64, 100)
	vm.NoteOn(67, 100) // pool exhausted, must steal voice for note 60

	found67 := false
	for _, v := range vm.Voices() {
		if v.Note == 67 {
			found67 = true
		}
	}
	if !found67 {
		t.Fatal("expected note 67 to have stolen a voice")
	}
}

func TestPolyNoteOffReleasesMatchingVoice(t *testing.T) {
	vm := newTestManager(4, Poly)
	vm.NoteOn(60, 100)
	vm.NoteOff(60)
	v := vm.Voices()[0]
	if v.State != VoiceReleasing {
		t.Fatalf("expected voice to enter Releasing, got state %v", v.State)
	}
}

func TestMonoRetriggersOnEachNoteOn(t *testing.T) {
	vm := newTestManager(4, Mono)
	vm.NoteOn(60, 100)
	for i := 0; i < 100; i++ {
		vm.Render()
	}
	levelAfterFirst := vm.Voices()[0].env.Level
	vm.NoteOn(64, 100)
	if vm.Voices()[0].Note != 64 {
		t.Fatalf("mono voice should retarget to the new note, got %d", vm.Voices()[0].Note)
	}
	if p := vm.Voices()[0].osc.Phase(); p != 0 {
		t.Fatalf("mono NoteOn should retrigger the oscillator, phase is %v", p)
	}
	_ = levelAfterFirst
}

func TestMonoReturnsToPreviousHeldNoteOnRelease(t *testing.T) {
	vm := newTestManager(4, Mono)
	vm.NoteOn(60, 100)
	vm.NoteOn(64, 100)
	vm.NoteOff(64)
	if vm.Voices()[0].Note != 60 {
		t.Fatalf("expected mono voice to fall back to note 60, got %d", vm.Voices()[0].Note)
	}
}

func TestMonoReleasesWhenAllHeldNotesReleased(t *testing.T) {
	vm := newTestManager(4, Mono)
	vm.NoteOn(60, 100)
	vm.NoteOff(60)
	if vm.Voices()[0].State == VoiceActive {
		t.Fatal("expected voice to begin releasing once the last held note is released")
	}
}

func TestLegatoDoesNotRetriggerEnvelopeWhileHeld(t *testing.T) {
	vm := newTestManager(4, Legato)
	vm.NoteOn(60, 100)
	for i := 0; i < 1000; i++ {
		vm.Render()
	}
	stageBefore := vm.Voices()[0].env.Stage
	vm.NoteOn(64, 100)
	stageAfter := vm.Voices()[0].env.Stage
	if stageBefore != Attack && stageAfter == Attack {
		t.Fatal("legato retarget should not restart the attack stage once settled")
	}
	if vm.Voices()[0].Note != 64 {
		t.Fatalf("expected legato voice to retarget pitch to note 64, got %d", vm.Voices()[0].Note)
	}
}

func TestAllNotesOffReleasesEverything(t *testing.T) {
	vm := newTestManager(4, Poly)
	vm.NoteOn(60, 100)
	vm.NoteOn(64, 100)
	vm.AllNotesOff()
	for _, v := range vm.Voices() {
		if v.State == VoiceActive {
			t.Fatal("expected all voices to be releasing or idle after AllNotesOff")
		}
	}
}

func TestSetSampleBufferSwitchesNoteOnToSamplerPool(t *testing.T) {
	vm := newTestManager(4, Poly)
	buf := &SampleBuffer{Frames: make([]float32, 480), Channels: 1, SampleRate: 48000, RootNote: 60}
	vm.SetSampleBuffer(buf)
	vm.NoteOn(60, 100)

	for _, v := range vm.Voices() {
		if v.Active() {
			t.Fatal("expected the oscillator pool to stay idle while a sample buffer is loaded")
		}
	}
	_, _, active := vm.Render()
	if active != 1 {
		t.Fatalf("expected one active sampler voice, got %d", active)
	}
}

func TestSetSampleBufferNilReturnsToOscillatorPool(t *testing.T) {
	vm := newTestManager(4, Poly)
	buf := &SampleBuffer{Frames: make([]float32, 480), Channels: 1, SampleRate: 48000, RootNote: 60}
	vm.SetSampleBuffer(buf)
	vm.SetSampleBuffer(nil)
	vm.NoteOn(60, 100)
	_, _, active := vm.Render()
	if active != 1 {
		t.Fatalf("expected NoteOn to allocate an oscillator voice again, got %d active", active)
	}
	if vm.Voices()[0].Note != 60 {
		t.Fatalf("expected oscillator voice 0 to hold note 60, got %d", vm.Voices()[0].Note)
	}
}

func TestRenderCountsActiveVoices(t *testing.T) {
	vm := newTestManager(4, Poly)
	vm.NoteOn(60, 100)
	vm.NoteOn(64, 100)
	_, _, active := vm.Render()
	if active != 2 {
		t.Fatalf("expected 2 active voices reported by Render, got %d", active)
	}
}
