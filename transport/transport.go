package transport

import (
	"math"
	"sync/atomic"
)

// State is one of the transport's coarse playback states.
type State int32

const (
	Stopped State = iota
	Playing
	Paused
	Recording
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	case Recording:
		return "Recording"
	default:
		return "Unknown"
	}
}

// LoopRegion is an optional playback loop, in absolute samples.
type LoopRegion struct {
	Enabled bool
	Start   int64
	End     int64
}

// Transport owns the playback position and state, read and advanced
// once per sample from inside the audio callback and updated from the
// control context via atomics.
type Transport struct {
	state      atomic.Int32
	position   atomic.Int64 // absolute sample position
	sampleRate float32

	bpm atomic.Uint32 // float32 bits
	sig atomic.Uint64 // packed TimeSignature, see packTimeSignature

	Loop LoopRegion
}

// packTimeSignature packs Numerator/Denominator into a single uint64
// (numerator in the high 32 bits, denominator in the low 32 bits) so
// TimeSignature can live in one atomic.Uint64 the same way bpm packs a
// float32 into an atomic.Uint32.
func packTimeSignature(sig TimeSignature) uint64 {
	return uint64(uint32(sig.Numerator))<<32 | uint64(uint32(sig.Denominator))
}

func unpackTimeSignature(packed uint64) TimeSignature {
	return TimeSignature{
		Numerator:   int(int32(packed >> 32)),
		Denominator: int(int32(packed)),
	}
}

// NewTransport constructs a stopped transport at position zero.
func NewTransport(sampleRate, bpm float32, sig TimeSignature) *Transport {
	t := &Transport{sampleRate: sampleRate}
	t.state.Store(int32(Stopped))
	t.sig.Store(packTimeSignature(sig))
	t.SetTempo(bpm)
	return t
}

// State returns the current transport state.
func (t *Transport) State() State { return State(t.state.Load()) }

// Position returns the current absolute sample position.
func (t *Transport) Position() int64 { return t.position.Load() }

// MusicalPosition returns the current position as bar/beat/tick.
func (t *Transport) MusicalPosition() MusicalTime {
	ticks := SamplesToTicks(t.position.Load(), t.Tempo(), t.sampleRate)
	return FromTicks(ticks, t.TimeSignature())
}

// Tempo returns the current BPM.
func (t *Transport) Tempo() float32 {
	return math.Float32frombits(t.bpm.Load())
}

// SetTempo updates the tempo used by subsequent position advances.
func (t *Transport) SetTempo(bpm float32) {
	t.bpm.Store(math.Float32bits(bpm))
}

// TimeSignature returns the current time signature.
func (t *Transport) TimeSignature() TimeSignature { return unpackTimeSignature(t.sig.Load()) }

// SetTimeSignature updates the time signature.
func (t *Transport) SetTimeSignature(sig TimeSignature) { t.sig.Store(packTimeSignature(sig)) }

// Play transitions Stopped/Paused -> Playing.
func (t *Transport) Play() {
	if t.State() == Stopped || t.State() == Paused {
		t.state.Store(int32(Playing))
	}
}

// Record transitions into Recording from any state but Recording.
func (t *Transport) Record() {
	t.state.Store(int32(Recording))
}

// Pause preserves position and transitions Playing/Recording -> Paused.
func (t *Transport) Pause() {
	switch t.State() {
	case Playing, Recording:
		t.state.Store(int32(Paused))
	}
}

// Stop resets position to zero and returns to Stopped.
func (t *Transport) Stop() {
	t.state.Store(int32(Stopped))
	t.position.Store(0)
}

// SetPosition jumps directly to an absolute sample position, e.g. from
// a SetTransportPosition command.
func (t *Transport) SetPosition(samples int64) {
	if samples < 0 {
		samples = 0
	}
	t.position.Store(samples)
}

// Advance moves the transport forward by one sample if it is Playing
// or Recording, applying loop-region wrap with no discontinuity. It is
// the only method meant to be called from inside the audio callback's
// per-frame loop.
func (t *Transport) Advance() {
	switch t.State() {
	case Playing, Recording:
	default:
		return
	}
	pos := t.position.Load() + 1
	if t.Loop.Enabled && t.Loop.End > t.Loop.Start && pos >= t.Loop.End {
		pos = t.Loop.Start + (pos - t.Loop.End)
	}
	t.position.Store(pos)
}
