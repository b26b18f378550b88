// Package synth implements the voice and modulation core: oscillators,
// envelopes, LFOs, portamento, the modulation matrix, the
// state-variable filter, and the per-voice DSP graph and polyphony
// policy that drive them.
package synth

import "github.com/chewxy/math32"

const tau = 2 * math32.Pi

// Oscillator is a single tagged-variant generator: one of
// Sine/Square/Saw/Triangle, dispatched by switch on the hot path
// rather than through an interface, with PolyBLEP correction applied
// at each waveform discontinuity to bound aliasing.
type Oscillator struct {
	Kind           Kind
	phase          float32 // [0,1)
	phaseIncrement float32 // frequency / sampleRate, >= 0
}

type Kind int

const (
	Sine Kind = iota
	Square
	Saw
	Triangle
)

// Reset sets phase back to zero, as on note-on in non-legato modes.
func (o *Oscillator) Reset() {
	o.phase = 0
}

// SetFrequency recomputes the phase increment for the next sample;
// takes effect starting with the following call to Next.
func (o *Oscillator) SetFrequency(freq, sampleRate float32) {
	if freq < 0 {
		freq = 0
	}
	o.phaseIncrement = freq / sampleRate
}

// Phase returns the current phase in [0,1), without advancing.
func (o *Oscillator) Phase() float32 { return o.phase }

// Next advances the oscillator by one sample and returns a value in
// [-1,+1].
func (o *Oscillator) Next() float32 {
	t := o.phase
	var out float32
	switch o.Kind {
	case Sine:
		out = math32.Sin(tau * t)
	case Square:
		out = squareAt(t)
		out += polyBLEP(t, o.phaseIncrement)
		halfT := t + 0.5
		if halfT >= 1 {
			halfT -= 1
		}
		out -= polyBLEP(halfT, o.phaseIncrement)
	case Saw:
		out = 2*t - 1
		out -= polyBLEP(t, o.phaseIncrement)
	case Triangle:
		out = triangleFromPhase(t)
	}
	o.phase += o.phaseIncrement
	if o.phase >= 1 {
		o.phase -= math32.Floor(o.phase)
	}
	return out
}

func squareAt(t float32) float32 {
	if t < 0.5 {
		return 1
	}
	return -1
}

// triangleFromPhase evaluates an exact triangle wave at phase t; its
// only discontinuities are in slope, not value, so no PolyBLEP
// correction is applied (PolyBLEP targets value discontinuities).
func triangleFromPhase(t float32) float32 {
	if t < 0.25 {
		return 4 * t
	} else if t < 0.75 {
		return 2 - 4*t
	}
	return 4*t - 4
}

// polyBLEP returns the polynomial band-limited step correction for a
// discontinuity located at phase 0, given the current phase t and the
// per-sample phase increment dt. Applied additively around each edge
// of Square/Saw to suppress aliasing from the otherwise-sharp step.
func polyBLEP(t, dt float32) float32 {
	if dt <= 0 {
		return 0
	}
	if t < dt {
		x := t/dt - 1
		return -(x * x)
	} else if t > 1-dt {
		x := (t-1)/dt + 1
		return x * x
	}
	return 0
}
