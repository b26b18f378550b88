// Package command defines the message types carried across the
// control/audio boundary: parameter and MIDI commands
// flowing into the engine, notifications flowing back out, and a
// control-context undo/redo history recorded around command dispatch.
package command

import (
	"corewave/midi"
	"corewave/synth"
)

// Kind tags which variant a Command currently holds.
type Kind int

const (
	SetVolume Kind = iota
	SetPan
	SetWaveform
	SetAdsr
	SetLfo
	SetFilter
	SetPolyMode
	SetPortamento
	SetModRouting
	ClearModRouting
	SetTempo
	SetTimeSignature
	SetTransportPlaying
	SetTransportPosition
	SetMetronomeEnabled
	SetMetronomeVolume
	SetSampleBuffer
	Midi
)

// Adsr carries an attack/decay/sustain/release quadruple.
type Adsr struct {
	Attack, Decay, Sustain, Release float32
}

// Lfo carries a SetLfo command's payload.
type Lfo struct {
	Index       int
	Kind        int
	Rate, Depth float32
	Destination int
}

// FilterParams carries a SetFilter command's payload.
type FilterParams struct {
	Type      int
	Cutoff    float32
	Resonance float32
	Enabled   bool
}

// ModRouting carries a SetModRouting command's payload.
type ModRouting struct {
	Slot        int
	Source      int
	Destination int
	Depth       float32
	Enabled     bool
}

// TimeSignature carries a SetTimeSignature command's payload.
type TimeSignature struct {
	Numerator, Denominator int
}

// Command is a tagged union of every variant the control context can
// dispatch into the engine. Exactly one field beyond Kind
// is meaningful for any given Kind; the rest are the zero value. A
// flat struct, rather than an interface, keeps Command a fixed-size
// value so it can be pushed through ring.SPSC without allocating.
type Command struct {
	Kind Kind

	Float        float32
	Int          int
	Bool         bool
	Adsr         Adsr
	Lfo          Lfo
	Filter       FilterParams
	ModRouting   ModRouting
	TimeSig      TimeSignature
	Midi         midi.Timed
	SampleBuffer *synth.SampleBuffer
}

// NotificationKind tags which variant a Notification currently holds.
type NotificationKind int

const (
	CpuUsage NotificationKind = iota
	DeviceError
	Reconnect
	ParameterEcho
	QueueOverflow
	InvalidParameter
)

// Level tags a Notification's severity for control-context triage,
// independent of Kind: the same Kind can carry different levels
// depending on context (CpuUsage is only ever pushed once the sliding
// average crosses the overload threshold, so it is always a Warning
// today, but the field stays orthogonal to Kind rather than implied
// by it).
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// Category tags which subsystem a Notification concerns, so a control
// context can route or badge audio/midi/cpu notifications separately
// without switching on Kind.
type Category int

const (
	CategoryGeneric Category = iota
	CategoryMidi
	CategoryAudio
	CategoryCpu
)

// Notification flows from the audio context back to the control
// context: advisory CPU load, device/MIDI failures worth
// surfacing to the user, and echoes of parameters the callback
// actually applied (useful when a command was clamped).
type Notification struct {
	Kind     NotificationKind
	Level    Level
	Category Category

	CpuPercent float32
	Err        string
	ParamKind  Kind
	ParamValue float32
}
