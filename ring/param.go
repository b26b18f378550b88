package ring

import "corewave/dsp"

// Parameter is a single-precision float shared between the control
// context (writer) and the audio context (reader) with no locking.
// Values are clamped to Bounds on Store so an out-of-range command is
// silently corrected rather than rejected.
type Parameter struct {
	value  dsp.AtomicFloat32
	Bounds struct{ Min, Max float32 }
}

// NewParameter creates a parameter clamped to [min,max], initialized
// to initial (itself clamped).
func NewParameter(initial, min, max float32) *Parameter {
	p := &Parameter{}
	p.Bounds.Min, p.Bounds.Max = min, max
	p.value = *dsp.NewAtomicFloat32(clamp(initial, min, max))
	return p
}

// Store writes v, clamped to the parameter's bounds.
func (p *Parameter) Store(v float32) {
	p.value.Store(clamp(v, p.Bounds.Min, p.Bounds.Max))
}

// Load reads the current value.
func (p *Parameter) Load() float32 {
	return p.value.Load()
}

func clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
