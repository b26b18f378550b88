package midi

import (
	"errors"
)

// status bytes we interpret; everything else is ignored.
const (
	statusNoteOff         = 0x80
	statusNoteOn          = 0x90
	statusControlChange   = 0xB0
	statusChannelPressure = 0xD0
	statusPitchBend       = 0xE0
)

// ErrMalformed is returned for any byte sequence that doesn't decode
// to a supported, well-formed message. The caller drops the event;
// the parser never panics on bad input.
var ErrMalformed = errors.New("midi: malformed message")

// Parser decodes single MIDI 1.0 wire messages. Running status is not
// supported: each call must receive a complete message
// starting with its own status byte.
type Parser struct {
	// InputLatencyUs is added ahead of the raw device timestamp when
	// converting to a sample offset, to compensate for known driver
	// buffering. Zero by default.
	InputLatencyUs float64
}

// Parse decodes raw into an Event. inputTimestampUs is the time, in
// microseconds, at which the input device reported the message
// (relative to some monotonic origin shared with the audio clock).
// nowUs is the current audio-clock time at the same origin. The
// returned Timed's SamplesFromNow is computed from the difference,
// clamped to zero (a message that already arrived late is applied at
// the start of the next buffer, never "in the past").
func (p *Parser) Parse(raw []byte, inputTimestampUs, nowUs float64, timing interface {
	MicrosecondsToSamples(us float64) int
}) (Timed, error) {
	ev, err := DecodeMessage(raw)
	if err != nil {
		return Timed{}, err
	}
	deltaUs := inputTimestampUs + p.InputLatencyUs - nowUs
	var offset uint32
	if deltaUs > 0 {
		offset = uint32(timing.MicrosecondsToSamples(deltaUs))
	}
	return Timed{Event: ev, SamplesFromNow: offset}, nil
}

// DecodeMessage decodes a single complete MIDI message. NoteOn with
// velocity 0 is normalized to NoteOff.
// Multi-byte (MSB/LSB paired) Control Change reassembly is left to a
// device-specific collaborator upstream of this parser; a single CC
// message here always carries one 7-bit value.
func DecodeMessage(raw []byte) (Event, error) {
	if len(raw) == 0 {
		return Event{}, ErrMalformed
	}
	status := raw[0] & 0xF0
	switch status {
	case statusNoteOn:
		if len(raw) < 3 || !in7bit(raw[1]) || !in7bit(raw[2]) {
			return Event{}, ErrMalformed
		}
		return NoteOnEvent(raw[1], raw[2]), nil
	case statusNoteOff:
		if len(raw) < 3 || !in7bit(raw[1]) || !in7bit(raw[2]) {
			return Event{}, ErrMalformed
		}
		return NoteOffEvent(raw[1]), nil
	case statusControlChange:
		if len(raw) < 3 || !in7bit(raw[1]) || !in7bit(raw[2]) {
			return Event{}, ErrMalformed
		}
		return ControlChangeEvent(raw[1], raw[2]), nil
	case statusChannelPressure:
		if len(raw) < 2 || !in7bit(raw[1]) {
			return Event{}, ErrMalformed
		}
		return ChannelPressureEvent(raw[1]), nil
	case statusPitchBend:
		if len(raw) < 3 || !in7bit(raw[1]) || !in7bit(raw[2]) {
			return Event{}, ErrMalformed
		}
		value := int16(raw[1]) | int16(raw[2])<<7 // 14-bit, 0..16383
		return PitchBendEvent(value - 8192), nil
	default:
		return Event{}, ErrMalformed
	}
}

func in7bit(b byte) bool { return b&0x80 == 0 }
