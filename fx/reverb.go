package fx

import "corewave/dsp"

// Freeverb-style comb delay lengths in samples at the 44100Hz base
// rate the algorithm was originally tuned for; scaled proportionally
// for the engine's actual sample rate.
var combLengthsAt44100 = [4]int{1557, 1617, 1491, 1422}
var allpassLengthsAt44100 = [2]int{225, 556}

type comb struct {
	buf      []float32
	pos      int
	feedback float32
	damp1    float32
	damp2    float32
	filterState float32
}

func newComb(length int) *comb {
	return &comb{buf: make([]float32, length)}
}

func (c *comb) process(in float32) float32 {
	out := c.buf[c.pos]
	c.filterState = out*c.damp2 + c.filterState*c.damp1
	c.filterState = dsp.FlushDenormal(c.filterState)
	c.buf[c.pos] = dsp.FlushDenormal(in + c.filterState*c.feedback)
	c.pos++
	if c.pos >= len(c.buf) {
		c.pos = 0
	}
	return out
}

func (c *comb) reset() {
	for i := range c.buf {
		c.buf[i] = 0
	}
	c.filterState = 0
}

type allpass struct {
	buf      []float32
	pos      int
	feedback float32
}

func newAllpass(length int) *allpass {
	return &allpass{buf: make([]float32, length), feedback: 0.5}
}

func (a *allpass) process(in float32) float32 {
	bufout := a.buf[a.pos]
	out := -in + bufout
	a.buf[a.pos] = dsp.FlushDenormal(in + bufout*a.feedback)
	a.pos++
	if a.pos >= len(a.buf) {
		a.pos = 0
	}
	return out
}

func (a *allpass) reset() {
	for i := range a.buf {
		a.buf[i] = 0
	}
}

// Reverb is a Freeverb-style reverb: four parallel combs feeding two
// series all-passes.
type Reverb struct {
	Enabled   bool
	RoomSize  float32 // [0,1], feedback scaling
	Damping   float32 // [0,1], low-pass inside each comb
	Mix       float32 // [0,1]

	combs     [4]*comb
	allpasses [2]*allpass
}

// NewReverb scales the canonical 44100Hz comb/allpass lengths to
// sampleRate and pre-allocates every internal buffer.
func NewReverb(sampleRate float32) *Reverb {
	r := &Reverb{}
	scale := sampleRate / 44100
	for i, l := range combLengthsAt44100 {
		r.combs[i] = newComb(int(float32(l) * scale))
	}
	for i, l := range allpassLengthsAt44100 {
		r.allpasses[i] = newAllpass(int(float32(l) * scale))
	}
	return r
}

// applyParams derives comb feedback/damping from RoomSize/Damping.
// Called once per sample; cheap enough that caching isn't worth the
// staleness risk when a command changes RoomSize mid-buffer.
func (r *Reverb) applyParams() {
	feedback := 0.28 + r.RoomSize*0.7
	damp1 := r.Damping * 0.4
	damp2 := 1 - damp1
	for _, c := range r.combs {
		c.feedback = feedback
		c.damp1 = damp1
		c.damp2 = damp2
	}
}

// Reset clears every internal buffer.
func (r *Reverb) Reset() {
	for _, c := range r.combs {
		c.reset()
	}
	for _, a := range r.allpasses {
		a.reset()
	}
}

// LatencySamples is zero: Freeverb's combs contribute a tail, not a
// lookahead delay before the dry signal appears in the output.
func (r *Reverb) LatencySamples() int { return 0 }

// Process mixes a mono input through the comb/allpass network and
// returns the dry/wet blend.
func (r *Reverb) Process(in float32) float32 {
	r.applyParams()
	var wet float32
	for _, c := range r.combs {
		wet += c.process(in)
	}
	for _, a := range r.allpasses {
		wet = a.process(wet)
	}
	return (1-r.Mix)*in + r.Mix*wet
}
