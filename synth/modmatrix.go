package synth

import "github.com/chewxy/math32"

// ModSource and ModDestination mirror corewave.ModSource /
// ModDestination; redeclared locally so this package has no import
// cycle back to the root package while keeping the same tag values.
type ModSource int

const (
	ModSourceLFO1 ModSource = iota
	ModSourceLFO2
	ModSourceVelocity
	ModSourceAftertouch
	ModSourceModWheel
	ModSourceEnvelope
	ModSourcePitchBend
	ModSourceKeyTracking
)

type ModDestination int

const (
	ModDestPitch ModDestination = iota
	ModDestVolume
	ModDestFilterCutoff
	ModDestFilterResonance
	ModDestLFO1Rate
	ModDestLFO1Depth
	ModDestLFO2Rate
	ModDestLFO2Depth
	ModDestPan
	numModDestinations
)

// ModSlot is one row of the modulation matrix: a source, a
// destination, a depth in [-1,+1], and an enable flag. The matrix
// holds a fixed-size array of these, pre-allocated, so enabling or
// routing a slot never allocates.
type ModSlot struct {
	Source      ModSource
	Destination ModDestination
	Depth       float32 // [-1,+1]
	Enabled     bool
}

// ModMatrixSlots is the number of routing slots a matrix provides.
const ModMatrixSlots = 8

// ModMatrix routes modulation sources onto synthesis destinations
// through a fixed-size slot array; per-sample evaluation never
// allocates.
type ModMatrix struct {
	Slots [ModMatrixSlots]ModSlot
}

// Sources is read once per sample by Evaluate to pick up the current
// value of every possible source. Populated by the voice before
// calling Evaluate.
type Sources struct {
	LFO1         float32 // bipolar
	LFO2         float32 // bipolar
	Velocity     float32 // [0,1]
	Aftertouch   float32 // [0,1]
	ModWheel     float32 // [0,1]
	Envelope     float32 // [0,1]
	PitchBend    float32 // [-1,1]
	KeyTracking  float32 // [-1,1], e.g. (note-60)/60
}

// Result is the set of per-destination sums Evaluate produces, already
// interpreted according to each destination's own rule for combining
// with a voice's base value.
type Result struct {
	PitchSemitones float32
	AmpOffset      float32 // additive gain offset; caller clamps base+offset >= 0
	CutoffFactor   float32 // multiply base cutoff (Hz) by this
	ResonanceOffset float32
	LFO1RateMod    float32
	LFO1DepthMod   float32
	LFO2RateMod    float32
	LFO2DepthMod   float32
	PanOffset      float32 // clamped to [-1,1]
}

// Evaluate sums every enabled slot's contribution into its
// destination and returns the interpreted result. Destinations with
// no enabled sources keep their base value unchanged: their Result
// field is then zero, except CutoffFactor, whose no-op value is 1.
func (m *ModMatrix) Evaluate(src Sources) Result {
	var sums [numModDestinations]float32
	for i := range m.Slots {
		slot := &m.Slots[i]
		if !slot.Enabled {
			continue
		}
		sums[slot.Destination] += slot.Depth * sourceValue(slot.Source, src)
	}
	res := Result{
		PitchSemitones:  sums[ModDestPitch],
		AmpOffset:       sums[ModDestVolume],
		CutoffFactor:    math32.Pow(2, sums[ModDestFilterCutoff]),
		ResonanceOffset: sums[ModDestFilterResonance],
		LFO1RateMod:     sums[ModDestLFO1Rate],
		LFO1DepthMod:    sums[ModDestLFO1Depth],
		LFO2RateMod:     sums[ModDestLFO2Rate],
		LFO2DepthMod:    sums[ModDestLFO2Depth],
		PanOffset:       clampPan(sums[ModDestPan]),
	}
	return res
}

func sourceValue(s ModSource, src Sources) float32 {
	switch s {
	case ModSourceLFO1:
		return src.LFO1
	case ModSourceLFO2:
		return src.LFO2
	case ModSourceVelocity:
		return src.Velocity
	case ModSourceAftertouch:
		return src.Aftertouch
	case ModSourceModWheel:
		return src.ModWheel
	case ModSourceEnvelope:
		return src.Envelope
	case ModSourcePitchBend:
		return src.PitchBend
	case ModSourceKeyTracking:
		return src.KeyTracking
	default:
		return 0
	}
}

func clampPan(p float32) float32 {
	if p < -1 {
		return -1
	}
	if p > 1 {
		return 1
	}
	return p
}

// ApplyPitch returns baseFreq shifted by semitones:
// final_freq = base_freq * 2^(semitones/12).
func ApplyPitch(baseFreq, semitones float32) float32 {
	return baseFreq * math32.Pow(2, semitones/12)
}
