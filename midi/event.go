// Package midi turns raw MIDI 1.0 byte messages into typed, sample-
// timestamped events, and owns the device-facing input context that
// feeds them into the audio context's MIDI ring.
package midi

// Kind tags which variant an Event holds. A tagged variant, not an
// interface, keeps event dispatch on the audio path a plain switch.
type Kind int

const (
	NoteOn Kind = iota
	NoteOff
	ControlChange
	ChannelPressure
	PitchBend
)

// Event is an immutable MIDI 1.0 event, already parsed and range
// checked. Only Kind's matching fields are meaningful.
type Event struct {
	Kind       Kind
	Note       uint8 // NoteOn, NoteOff: 0..127
	Velocity   uint8 // NoteOn: 1..127 (velocity 0 is normalized to NoteOff by the parser)
	Controller uint8 // ControlChange: 0..127
	Value      uint8 // ControlChange, ChannelPressure: 0..127
	Bend       int16 // PitchBend: -8192..+8191
}

// Timed pairs an Event with its offset, in samples, from the start of
// the audio buffer that will next be rendered. An offset that exceeds
// the next buffer is held by the audio engine and decremented each
// callback until it falls inside the buffer being produced.
type Timed struct {
	Event        Event
	SamplesFromNow uint32
}

func NoteOnEvent(note, velocity uint8) Event {
	if velocity == 0 {
		return Event{Kind: NoteOff, Note: note}
	}
	return Event{Kind: NoteOn, Note: note, Velocity: velocity}
}

func NoteOffEvent(note uint8) Event {
	return Event{Kind: NoteOff, Note: note}
}

func ControlChangeEvent(controller, value uint8) Event {
	return Event{Kind: ControlChange, Controller: controller, Value: value}
}

func ChannelPressureEvent(value uint8) Event {
	return Event{Kind: ChannelPressure, Value: value}
}

func PitchBendEvent(value int16) Event {
	return Event{Kind: PitchBend, Bend: value}
}
