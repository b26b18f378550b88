package dsp

import "github.com/chewxy/math32"

// Smoother is a one-pole (exponential) smoother used everywhere a
// control-context parameter change needs to reach the audio path
// without a click. For a target t and coefficient a in (0,1], each
// sample moves y toward t by a fraction a of the remaining distance:
//
//	y[n] = y[n-1] + a*(t - y[n-1])
type Smoother struct {
	value  float32
	target float32
	coeff  float32
}

// NewSmoother creates a smoother starting at, and targeting, initial.
func NewSmoother(initial float32) Smoother {
	return Smoother{value: initial, target: initial, coeff: 1}
}

// SetTime sets the coefficient so the smoother reaches 63.2% of the
// way to a new target in the given number of seconds, at sampleRate.
// A timeSeconds of 0 makes the smoother track its target instantly.
func (s *Smoother) SetTime(timeSeconds float32, sampleRate float32) {
	if timeSeconds <= 0 {
		s.coeff = 1
		return
	}
	samples := timeSeconds * sampleRate
	// 1 - e^(-1/samples) is the standard one-pole coefficient for a
	// given 63.2% settling time expressed in samples.
	s.coeff = 1 - math32.Exp(-1/samples)
}

// SetTarget changes the value the smoother is moving toward without
// resetting its current position.
func (s *Smoother) SetTarget(target float32) {
	s.target = target
}

// SetImmediate snaps both value and target, bypassing smoothing.
func (s *Smoother) SetImmediate(value float32) {
	s.value = value
	s.target = value
}

// Next advances the smoother by one sample and returns the new value.
func (s *Smoother) Next() float32 {
	s.value += s.coeff * (s.target - s.value)
	return s.value
}

// Value returns the current value without advancing.
func (s *Smoother) Value() float32 { return s.value }

// Target returns the value being moved toward.
func (s *Smoother) Target() float32 { return s.target }

// Settled reports whether the smoother has effectively reached its
// target, within a small epsilon. Used by callers that want to skip
// per-sample smoothing once convergence has happened.
func (s *Smoother) Settled() bool {
	d := s.target - s.value
	return d < 1e-5 && d > -1e-5
}
