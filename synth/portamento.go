package synth

import "corewave/dsp"

// Portamento is a one-pole smoother applied to a voice's base
// frequency before LFO/modulation is layered on top. Time
// is the 63.2% settling time toward a new target note.
type Portamento struct {
	smoother dsp.Smoother
	Time     float32 // seconds
}

// Retarget points the glide at a new base frequency without resetting
// the current position, the defining behavior of portamento.
func (p *Portamento) Retarget(freqHz, sampleRate float32) {
	p.smoother.SetTime(p.Time, sampleRate)
	p.smoother.SetTarget(freqHz)
}

// Jump snaps directly to freqHz, used the first time a voice is
// allocated (there is nothing to glide from yet).
func (p *Portamento) Jump(freqHz float32) {
	p.smoother.SetImmediate(freqHz)
}

// Next advances the glide by one sample and returns the current
// frequency.
func (p *Portamento) Next() float32 {
	return p.smoother.Next()
}
