package synth

// Stage is the ADSR state machine's current phase.
type Stage int

const (
	Idle Stage = iota
	Attack
	Decay
	Sustain
	Release
)

// Envelope is a piecewise-linear ADSR. Level is continuous across
// every stage transition: Release always starts from whatever level
// the envelope currently holds, not from the nominal sustain value,
// and retriggering during Release begins a new Attack from the
// current level rather than snapping to zero.
type Envelope struct {
	Stage         Stage
	Level         float32 // [0,1]
	Attack        float32 // seconds
	Decay         float32 // seconds
	Sustain       float32 // [0,1]
	Release       float32 // seconds
	VelocityScale float32 // [0,1], velocity/127

	sampleRate  float32
	attackStep  float32
	decayStep   float32
	releaseStep float32
}

// SetSampleRate recomputes per-sample step sizes for the current
// stage durations. Call whenever the engine's sample rate or any of
// Attack/Decay/Release changes.
func (e *Envelope) SetSampleRate(sampleRate float32) {
	e.sampleRate = sampleRate
	e.recomputeSteps()
}

func (e *Envelope) recomputeSteps() {
	e.attackStep = stepFor(1, e.Attack, e.sampleRate)
	e.decayStep = stepFor(1, e.Decay, e.sampleRate)
}

func stepFor(span, seconds, sampleRate float32) float32 {
	if seconds <= 0 {
		return span // reach the target within a single sample
	}
	return span / (seconds * sampleRate)
}

// NoteOn starts (or restarts) the envelope for velocity in [1,127].
// Stage becomes Attack; Level is left wherever it currently is so a
// retrigger glides from there instead of popping to zero.
func (e *Envelope) NoteOn(velocity uint8) {
	e.VelocityScale = float32(velocity) / 127
	e.Stage = Attack
	e.recomputeSteps()
}

// NoteOff moves the envelope into Release from its current level. The
// release step is sized so the *current* level reaches zero in
// Release seconds, matching the property that release timing is
// measured from release-start regardless of where decay left off.
func (e *Envelope) NoteOff() {
	if e.Stage == Idle {
		return
	}
	e.Stage = Release
	e.releaseStep = stepFor(e.Level, e.Release, e.sampleRate)
}

// ForceStop fades the envelope out linearly over fadeSamples in the
// Release stage, reaching Idle when the level hits zero; with
// fadeSamples <= 0 it jumps straight to Idle. The fade is linear, not
// exponential. Used by voice stealing.
func (e *Envelope) ForceStop(fadeSamples int) {
	if fadeSamples <= 0 {
		e.Stage = Idle
		e.Level = 0
		return
	}
	e.Stage = Release
	e.releaseStep = e.Level / float32(fadeSamples)
}

// Next advances the envelope by one sample and returns the envelope
// level scaled by velocity.
func (e *Envelope) Next() float32 {
	switch e.Stage {
	case Attack:
		e.Level += e.attackStep
		if e.Level >= 1 {
			e.Level = 1
			e.Stage = Decay
		}
	case Decay:
		e.Level -= e.decayStep * (1 - e.Sustain)
		if e.Level <= e.Sustain {
			e.Level = e.Sustain
			e.Stage = Sustain
		}
	case Sustain:
		e.Level = e.Sustain
	case Release:
		e.Level -= e.releaseStep
		if e.Level <= 0 {
			e.Level = 0
			e.Stage = Idle
		}
	case Idle:
		e.Level = 0
	}
	return e.Level * e.VelocityScale
}

// Active reports whether the envelope still has any output (i.e. has
// not settled into Idle).
func (e *Envelope) Active() bool { return e.Stage != Idle }
