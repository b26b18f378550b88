package audio

import (
	"testing"

	"corewave"
	"corewave/command"
	"corewave/midi"
	"corewave/synth"
)

func testConfig() Config {
	c := DefaultConfig()
	c.BufferSize = 256
	c.VoiceCount = 4
	return c
}

func TestEngineProducesBoundedSilenceWithNoInput(t *testing.T) {
	e := NewEngine(testConfig())
	buf := make([]byte, e.cfg.BufferSize*e.cfg.Channels*e.cfg.Format.BytesPerSample()*4)
	n, err := e.Read(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("expected Read to fill the whole buffer, got %d of %d", n, len(buf))
	}
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("expected silent output with no input, got byte %d = %d", i, b)
		}
	}
}

func TestEngineAppliesMidiNoteOnAndRenders(t *testing.T) {
	e := NewEngine(testConfig())
	e.MidiRing.TryPush(midi.Timed{Event: midi.NoteOnEvent(60, 100)})

	buf := make([]byte, e.cfg.BufferSize*e.cfg.Channels*2)
	if _, err := e.Read(buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	active := 0
	for _, v := range e.VM.Voices() {
		if v.Active() {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("expected one active voice after NoteOn, got %d", active)
	}
}

func TestEngineAppliesCommandSetVolume(t *testing.T) {
	e := NewEngine(testConfig())
	e.CommandRing.TryPush(command.Command{Kind: command.SetVolume, Float: 0.25})
	buf := make([]byte, e.cfg.BufferSize*e.cfg.Channels*2)
	if _, err := e.Read(buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.globals.MasterVolume != 0.25 {
		t.Fatalf("expected master volume to update to 0.25, got %v", e.globals.MasterVolume)
	}
}

func TestEngineClampsOutOfRangeVolume(t *testing.T) {
	e := NewEngine(testConfig())
	e.CommandRing.TryPush(command.Command{Kind: command.SetVolume, Float: 5})
	buf := make([]byte, e.cfg.BufferSize*e.cfg.Channels*2)
	e.Read(buf)
	if e.globals.MasterVolume != corewave.RangeMasterVolume.Max {
		t.Fatalf("expected out-of-range volume to clamp to %v, got %v", corewave.RangeMasterVolume.Max, e.globals.MasterVolume)
	}
}

func TestEngineVoiceStealingUnderPolyphonyPressure(t *testing.T) {
	e := NewEngine(testConfig()) // VoiceCount = 4
	notes := []uint8{60, 62, 64, 65, 67}
	for _, n := range notes {
		e.MidiRing.TryPush(midi.Timed{Event: midi.NoteOnEvent(n, 100)})
	}
	buf := make([]byte, e.cfg.BufferSize*e.cfg.Channels*2)
	e.Read(buf)

	found67 := false
	for _, v := range e.VM.Voices() {
		if v.Active() && v.Note == 67 {
			found67 = true
		}
	}
	if !found67 {
		t.Fatal("expected the most recent note to have claimed a voice via stealing")
	}
}

func TestEngineOutputStaysBoundedUnderFullPolyphony(t *testing.T) {
	e := NewEngine(testConfig())
	for _, n := range []uint8{60, 64, 67} {
		e.MidiRing.TryPush(midi.Timed{Event: midi.NoteOnEvent(n, 127)})
	}
	e.CommandRing.TryPush(command.Command{Kind: command.SetWaveform, Int: 1}) // square, highest energy
	full := make([]byte, e.cfg.BufferSize*e.cfg.Channels*2)
	for i := 0; i < 40; i++ {
		if _, err := e.Read(full); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	for i := 0; i+1 < len(full); i += 2 {
		sample := int16(uint16(full[i]) | uint16(full[i+1])<<8)
		if sample < -32767 || sample > 32767 {
			t.Fatalf("sample exceeded 16-bit range: %d", sample)
		}
	}
}

func TestEngineAppliesSetLfoToGlobalsAndRouting(t *testing.T) {
	e := NewEngine(testConfig())
	e.CommandRing.TryPush(command.Command{Kind: command.SetLfo, Lfo: command.Lfo{
		Index: 1, Kind: 2, Rate: 5, Depth: 0.5, Destination: int(2), // ModDestFilterCutoff
	}})
	buf := make([]byte, e.cfg.BufferSize*e.cfg.Channels*2)
	if _, err := e.Read(buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.globals.LFO2Rate != 5 || e.globals.LFO2Depth != 0.5 {
		t.Fatalf("expected LFO2 rate/depth to update, got rate=%v depth=%v", e.globals.LFO2Rate, e.globals.LFO2Depth)
	}
	v := e.VM.Voices()[0]
	slot := v.ModMatrix().Slots[lfoRoutingSlot(1)]
	if !slot.Enabled || slot.Destination != 2 {
		t.Fatalf("expected LFO2's routing slot enabled toward destination 2, got %+v", slot)
	}
}

func TestEngineSetPanReachesVoicePan(t *testing.T) {
	e := NewEngine(testConfig())
	e.CommandRing.TryPush(command.Command{Kind: command.SetPan, Float: -0.5})
	e.MidiRing.TryPush(midi.Timed{Event: midi.NoteOnEvent(60, 100)})
	buf := make([]byte, e.cfg.BufferSize*e.cfg.Channels*2)
	if _, err := e.Read(buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.VM.Voices()[0].Pan != -0.5 {
		t.Fatalf("expected voice pan to follow MasterPan, got %v", e.VM.Voices()[0].Pan)
	}
}

func TestEngineSetFilterDisabledBypassesFilter(t *testing.T) {
	e := NewEngine(testConfig())
	e.CommandRing.TryPush(command.Command{Kind: command.SetFilter, Filter: command.FilterParams{
		Cutoff: 1000, Resonance: 0.7, Enabled: false,
	}})
	buf := make([]byte, e.cfg.BufferSize*e.cfg.Channels*2)
	if _, err := e.Read(buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.globals.FilterEnabled {
		t.Fatal("expected FilterEnabled to follow the command's false value")
	}
	if e.VM.Voices()[0].Filter().Enabled {
		t.Fatal("expected the per-voice filter to be disabled once mirrored")
	}
}

func TestEngineSampleBufferSwitchesNoteOnToSampler(t *testing.T) {
	e := NewEngine(testConfig())
	buf := &synth.SampleBuffer{
		Frames: make([]float32, 4800), Channels: 1, SampleRate: 48000, RootNote: 60,
	}
	e.CommandRing.TryPush(command.Command{Kind: command.SetSampleBuffer, SampleBuffer: buf})
	out := make([]byte, e.cfg.BufferSize*e.cfg.Channels*2)
	// MidiRing drains before CommandRing within one Read, so the buffer
	// is loaded by a first Read before the NoteOn is queued.
	if _, err := e.Read(out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.MidiRing.TryPush(midi.Timed{Event: midi.NoteOnEvent(60, 100)})
	if _, err := e.Read(out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, v := range e.VM.Voices() {
		if v.Active() {
			t.Fatal("expected the oscillator pool to stay idle once a sample buffer is loaded")
		}
	}
}

func TestReconnectStateBacksOffExponentially(t *testing.T) {
	var r ReconnectState
	r.Disconnected()
	if r.IsConnected() {
		t.Fatal("expected disconnected state")
	}
	base := r.currentDelay()
	r.attempts = 1
	if r.currentDelay() <= base {
		t.Fatal("expected backoff delay to grow with attempts")
	}
}

func TestCPULoadAveragesWindow(t *testing.T) {
	var c CPULoad
	for i := 0; i < cpuLoadWindow; i++ {
		c.Record(0.5)
	}
	if avg := c.Average(); avg < 0.49 || avg > 0.51 {
		t.Fatalf("expected average near 0.5, got %v", avg)
	}
	if c.Overloaded() {
		t.Fatal("0.5 average should not be overloaded")
	}
}

func TestFormatConversionI16RoundTrips(t *testing.T) {
	left := []float32{0, 0.5, -0.5, 1, -1}
	right := []float32{0, 0, 0, 0, 0}
	bytes := InterleaveStereo(left, right, FormatI16, nil)
	if len(bytes) != len(left)*2*2 {
		t.Fatalf("expected %d bytes, got %d", len(left)*2*2, len(bytes))
	}
	for i := range left {
		l := int16(uint16(bytes[i*4]) | uint16(bytes[i*4+1])<<8)
		r := int16(uint16(bytes[i*4+2]) | uint16(bytes[i*4+3])<<8)
		if got := float32(l) / 32767; got-left[i] > 1e-4 || left[i]-got > 1e-4 {
			t.Fatalf("left sample %d: expected %v, decoded %v", i, left[i], got)
		}
		if r != 0 {
			t.Fatalf("right sample %d: expected 0, decoded %d", i, r)
		}
	}
}
