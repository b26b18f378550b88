package synth

import "math/rand"

// LFO shares the oscillator waveforms plus a sample-and-hold "random"
// variant, and always outputs a bipolar value in [-1,+1] scaled by
// Depth.
type LFO struct {
	Kind  Kind
	Rate  float32 // Hz, > 0; when random, the rate at which a new value is held
	Depth float32 // [0,1]
	isRandom bool

	osc       Oscillator
	holdValue float32
	lastPhase float32
	rng       *rand.Rand
}

// SetRandom toggles the sample-and-hold random waveform, independent
// of Kind: a distinct LFO variant layered on top of the shared
// oscillator phase accumulator rather than one of its waveforms.
func (l *LFO) SetRandom(random bool, seed int64) {
	l.isRandom = random
	if random && l.rng == nil {
		l.rng = rand.New(rand.NewSource(seed))
	}
}

// Next advances the LFO by one sample at the given sample rate and
// returns its bipolar, depth-scaled output.
func (l *LFO) Next(sampleRate float32) float32 {
	l.osc.SetFrequency(l.Rate, sampleRate)
	if l.isRandom {
		phase := l.osc.Phase()
		l.osc.Next() // advance phase accumulator; discard waveform value
		if phase < l.lastPhase { // wrapped = a new positive zero crossing
			l.holdValue = l.rng.Float32()*2 - 1
		}
		l.lastPhase = l.osc.Phase()
		return l.holdValue * l.Depth
	}
	l.osc.Kind = l.Kind
	return l.osc.Next() * l.Depth
}

// Reset restarts the LFO's phase and its sample-and-hold wrap
// detection.
func (l *LFO) Reset() {
	l.osc.Reset()
	l.lastPhase = 0
}
