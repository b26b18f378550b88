package synth

import (
	"github.com/chewxy/math32"

	"corewave/dsp"
)

// FilterType selects which tap of the Chamberlin SVF is forwarded.
type FilterType int

const (
	LowPass FilterType = iota
	HighPass
	BandPass
	Notch
)

// Filter is a Chamberlin state-variable filter offering LP/HP/BP/Notch
// simultaneously from the same pair of integrators. Cutoff
// and resonance are each fed through a one-pole smoother so parameter
// jumps don't click.
type Filter struct {
	Type    FilterType
	Enabled bool

	cutoffSmoother    dsp.Smoother
	resonanceSmoother dsp.Smoother
	ic1, ic2          float32
	sampleRate        float32
}

const (
	minCutoffHz = 20
	maxCutoffHz = 20000
	minQ        = 0.5
	maxQ        = 20
)

// Init prepares the filter for sampleRate, with an initial cutoff/Q
// and an immediate (non-smoothed) jump to those values.
func (f *Filter) Init(sampleRate, cutoffHz, q float32) {
	f.sampleRate = sampleRate
	f.cutoffSmoother.SetTime(0.005, sampleRate)
	f.resonanceSmoother.SetTime(0.005, sampleRate)
	f.cutoffSmoother.SetImmediate(clampCutoff(cutoffHz, sampleRate))
	f.resonanceSmoother.SetImmediate(clampQ(q))
}

// SetCutoff sets the smoothing target for cutoff frequency in Hz,
// clamped to [20, min(fs/3, 20000)]. Process additionally bounds the
// resulting coefficient so the loop stays stable at every Q.
func (f *Filter) SetCutoff(hz float32) {
	f.cutoffSmoother.SetTarget(clampCutoff(hz, f.sampleRate))
}

// SetResonance sets the smoothing target for Q, clamped to [0.5,20].
func (f *Filter) SetResonance(q float32) {
	f.resonanceSmoother.SetTarget(clampQ(q))
}

func clampCutoff(hz, sampleRate float32) float32 {
	max := math32.Min(sampleRate/3, maxCutoffHz)
	if hz < minCutoffHz {
		return minCutoffHz
	}
	if hz > max {
		return max
	}
	return hz
}

func clampQ(q float32) float32 {
	if q < minQ {
		return minQ
	}
	if q > maxQ {
		return maxQ
	}
	return q
}

// Reset zeros the integrators, clearing any filter tail.
func (f *Filter) Reset() {
	f.ic1, f.ic2 = 0, 0
}

// IsEnabled satisfies fx.Stage so a Filter can also sit inside a
// master effect chain alongside delay/reverb.
func (f *Filter) IsEnabled() bool { return f.Enabled }

// LatencySamples is zero: the SVF introduces no lookahead.
func (f *Filter) LatencySamples() int { return 0 }

// Process processes one input sample and returns the tap selected by
// Type.
func (f *Filter) Process(in float32) float32 {
	fc := f.cutoffSmoother.Next()
	q := f.resonanceSmoother.Next()
	g := 2 * math32.Sin(math32.Pi*fc/f.sampleRate)
	k := 1 / q
	// The Chamberlin loop is only stable while g² + 2gk < 4; at low Q
	// and high cutoff the cutoff clamp alone does not ensure that, so g
	// is held just inside the bound.
	if gMax := 0.9 * (math32.Sqrt(k*k+4) - k); g > gMax {
		g = gMax
	}

	f.ic1 += g * (in - f.ic2 - k*f.ic1)
	f.ic2 += g * f.ic1
	f.ic1 = dsp.FlushDenormal(f.ic1)
	f.ic2 = dsp.FlushDenormal(f.ic2)

	lp := f.ic2
	bp := f.ic1
	hp := in - k*f.ic1 - f.ic2
	notch := lp + hp

	switch f.Type {
	case LowPass:
		return lp
	case HighPass:
		return hp
	case BandPass:
		return bp
	case Notch:
		return notch
	default:
		return lp
	}
}
