package midi

import (
	"testing"
	"time"
)

type fakeTiming struct{ rate float32 }

func (f fakeTiming) MicrosecondsToSamples(us float64) int {
	return int(us * float64(f.rate) / 1e6)
}

func TestDecodeNoteOn(t *testing.T) {
	ev, err := DecodeMessage([]byte{statusNoteOn, 60, 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Kind != NoteOn || ev.Note != 60 || ev.Velocity != 100 {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestDecodeNoteOnZeroVelocityIsNoteOff(t *testing.T) {
	ev, err := DecodeMessage([]byte{statusNoteOn, 60, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Kind != NoteOff || ev.Note != 60 {
		t.Fatalf("expected NoteOff{60}, got %+v", ev)
	}
}

func TestDecodePitchBendCenter(t *testing.T) {
	ev, err := DecodeMessage([]byte{statusPitchBend, 0, 64}) // 64<<7 = 8192 -> centered
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Kind != PitchBend || ev.Bend != 0 {
		t.Fatalf("expected centered pitch bend, got %+v", ev)
	}
}

func TestDecodeMalformedDropped(t *testing.T) {
	cases := [][]byte{
		{},
		{statusNoteOn, 200, 10},     // note out of 7-bit range
		{statusNoteOn, 10},          // truncated
		{0xF8},                     // unsupported status (realtime clock)
	}
	for _, c := range cases {
		if _, err := DecodeMessage(c); err != ErrMalformed {
			t.Fatalf("expected ErrMalformed for %v, got %v", c, err)
		}
	}
}

func TestParserOffsetComputation(t *testing.T) {
	p := &Parser{}
	timing := fakeTiming{rate: 48000}
	timed, err := p.Parse([]byte{statusNoteOn, 60, 100}, 1000, 0, timing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 1000us ahead of now at 48kHz = 48 samples
	if timed.SamplesFromNow != 48 {
		t.Fatalf("expected offset 48, got %v", timed.SamplesFromNow)
	}
}

func TestParserPastEventClampsToZero(t *testing.T) {
	p := &Parser{}
	timing := fakeTiming{rate: 48000}
	timed, err := p.Parse([]byte{statusNoteOn, 60, 100}, 0, 1000, timing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if timed.SamplesFromNow != 0 {
		t.Fatalf("expected offset clamped to 0, got %v", timed.SamplesFromNow)
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

func TestReconnectStateExhaustsAfterMaxAttempts(t *testing.T) {
	var r ReconnectState
	r.Disconnected()
	now := time.Now()
	for i := 0; i < maxReconnectAttempts; i++ {
		if !r.ShouldRetry(now) {
			t.Fatalf("expected attempt %d to be allowed", i)
		}
		now = now.Add(reconnectMaxDelay)
	}
	if !r.Exhausted() {
		t.Fatal("expected state to be exhausted after maxReconnectAttempts")
	}
	if r.ShouldRetry(now) {
		t.Fatal("expected no further retries once exhausted")
	}
}

func TestReconnectStateConnectedResetsAttempts(t *testing.T) {
	var r ReconnectState
	r.Disconnected()
	r.ShouldRetry(time.Now())
	r.Connected()
	if !r.IsConnected() {
		t.Fatal("expected connected state")
	}
	if r.Exhausted() {
		t.Fatal("a connected state should never be exhausted")
	}
}
