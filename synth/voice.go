package synth

import (
	"github.com/chewxy/math32"

	"corewave/fx"
)

// VoiceState is the coarse lifecycle state of a Voice.
type VoiceState int

const (
	VoiceIdle VoiceState = iota
	VoiceActive
	VoiceReleasing
)

// GlobalParams are the voice-manager-owned parameters
// mirrored into every voice once per buffer: master
// volume/pan, filter base cutoff/resonance, portamento time, LFO
// rate/depth, and ADSR times/sustain. Only filter cutoff and resonance
// are smoothed (by the Filter's own one-pole smoothers); every other
// field takes effect unsmoothed as soon as it is mirrored. The
// modulation matrix applies its per-sample modulation on top of
// whatever these hold.
type GlobalParams struct {
	MasterVolume     float32
	MasterPan        float32
	FilterType       FilterType
	FilterCutoff     float32
	FilterResonance  float32
	FilterEnabled    bool
	PortamentoTime   float32
	LFO1Kind         Kind
	LFO1Rate         float32
	LFO1Depth        float32
	LFO2Kind         Kind
	LFO2Rate         float32
	LFO2Depth        float32
	Attack           float32
	Decay            float32
	Sustain          float32
	Release          float32
	OscKind          Kind
}

// Voice is the per-note DSP graph and state machine: an
// oscillator driven through portamento and the modulation matrix, a
// filter, a delay/reverb effect chain, an envelope, and equal-power
// panning into a stereo accumulator.
type Voice struct {
	State      VoiceState
	Note       uint8
	Velocity   uint8
	AgeSamples uint64
	Pan        float32

	osc         Oscillator
	env         Envelope
	lfo1, lfo2  LFO
	filter      Filter
	chain       fx.Chain
	delay       *fx.Delay
	reverb      *fx.Reverb
	mod         ModMatrix
	porta       Portamento
	sampleRate  float32
	baseFreq    float32
	firstNote   bool
	modWheel    float32
	aftertouch  float32
	pitchBend   float32
}

// NewVoice constructs a voice with its effect chain pre-allocated for
// sampleRate, so nothing after this call ever allocates.
func NewVoice(sampleRate float32) *Voice {
	v := &Voice{sampleRate: sampleRate, firstNote: true}
	v.env.SetSampleRate(sampleRate)
	v.filter.Init(sampleRate, 20000, 0.7)
	v.filter.Enabled = true
	v.delay = fx.NewDelay(sampleRate)
	v.reverb = fx.NewReverb(sampleRate)
	v.chain.Add(&v.filter)
	v.chain.Add(fx.WrapDelay(v.delay))
	v.chain.Add(fx.WrapReverb(v.reverb))
	for i := range v.mod.Slots {
		v.mod.Slots[i].Depth = 0
	}
	return v
}

// ModMatrix exposes the voice's modulation routing for configuration
// by the voice manager / command layer.
func (v *Voice) ModMatrix() *ModMatrix { return &v.mod }

// Delay and Reverb expose the voice's effect members for parameter
// commands.
func (v *Voice) Delay() *fx.Delay   { return v.delay }
func (v *Voice) Reverb() *fx.Reverb { return v.reverb }
func (v *Voice) Filter() *Filter    { return &v.filter }

// NoteFrequency converts a MIDI note number to Hz, A4=440 at note 69.
func NoteFrequency(note uint8) float32 {
	return 440 * math32.Pow(2, (float32(note)-69)/12)
}

// Trigger starts the voice on note/velocity. retrigger controls
// whether the envelope restarts (false for Legato continuing a held
// note); legato continuing still retargets pitch via portamento.
func (v *Voice) Trigger(note, velocity uint8, retrigger bool) {
	v.Note = note
	v.Velocity = velocity
	v.AgeSamples = 0
	v.baseFreq = NoteFrequency(note)
	if v.firstNote {
		v.porta.Jump(v.baseFreq)
		v.firstNote = false
	} else {
		v.porta.Retarget(v.baseFreq, v.sampleRate)
	}
	v.State = VoiceActive
	if retrigger {
		v.osc.Reset()
		v.env.NoteOn(velocity)
	} else if v.env.Stage == Idle {
		v.env.NoteOn(velocity)
	}
}

// Release transitions the voice toward Releasing; the envelope decides
// when it actually reaches Idle.
func (v *Voice) Release() {
	if v.State == VoiceIdle {
		return
	}
	v.State = VoiceReleasing
	v.env.NoteOff()
}

// ForceStop steals the voice immediately via a short fade.
func (v *Voice) ForceStop(fadeSamples int) {
	v.env.ForceStop(fadeSamples)
	v.State = VoiceReleasing
}

// ApplyGlobals mirrors the voice-manager-owned parameters into this
// voice; called once per buffer. Filter cutoff and resonance become
// smoothing targets; every other field is applied as is.
func (v *Voice) ApplyGlobals(g *GlobalParams) {
	v.osc.Kind = g.OscKind
	v.env.Attack, v.env.Decay, v.env.Sustain, v.env.Release = g.Attack, g.Decay, g.Sustain, g.Release
	v.env.SetSampleRate(v.sampleRate)
	v.filter.Type = g.FilterType
	v.filter.Enabled = g.FilterEnabled
	v.filter.SetCutoff(g.FilterCutoff)
	v.filter.SetResonance(g.FilterResonance)
	v.porta.Time = g.PortamentoTime
	v.lfo1.Kind, v.lfo1.Rate, v.lfo1.Depth = g.LFO1Kind, g.LFO1Rate, g.LFO1Depth
	v.lfo2.Kind, v.lfo2.Rate, v.lfo2.Depth = g.LFO2Kind, g.LFO2Rate, g.LFO2Depth
	v.Pan = g.MasterPan
}

// SetModWheel/SetAftertouch/SetPitchBend feed continuous controller
// state used as modulation sources; normalized per ranges.
func (v *Voice) SetModWheel(v7 uint8)    { v.modWheel = float32(v7) / 127 }
func (v *Voice) SetAftertouch(v7 uint8)  { v.aftertouch = float32(v7) / 127 }
func (v *Voice) SetPitchBend(bend int16) { v.pitchBend = float32(bend) / 8192 }

// Active reports whether the voice still needs to be rendered.
func (v *Voice) Active() bool { return v.State != VoiceIdle }

// Next renders one stereo sample pair and advances every per-voice
// sub-component exactly once:
//  1. portamento toward the target note
//  2. LFOs and envelope
//  3. modulation matrix
//  4. final oscillator frequency
//  5. oscillator -> filter -> effect chain -> envelope*amp -> pan
func (v *Voice) Next() (left, right float32) {
	if v.State == VoiceIdle {
		return 0, 0
	}
	v.AgeSamples++

	freq := v.porta.Next()
	lfo1 := v.lfo1.Next(v.sampleRate)
	lfo2 := v.lfo2.Next(v.sampleRate)
	envLevel := v.env.Next()
	if v.env.Stage == Idle {
		v.State = VoiceIdle
	}

	keyTrack := (float32(v.Note) - 60) / 60
	mod := v.mod.Evaluate(Sources{
		LFO1:        lfo1,
		LFO2:        lfo2,
		Velocity:    float32(v.Velocity) / 127,
		Aftertouch:  v.aftertouch,
		ModWheel:    v.modWheel,
		Envelope:    envLevel,
		PitchBend:   v.pitchBend,
		KeyTracking: keyTrack,
	})

	finalFreq := ApplyPitch(freq, mod.PitchSemitones+v.pitchBend*2)
	v.osc.SetFrequency(finalFreq, v.sampleRate)
	raw := v.osc.Next()

	v.filter.SetCutoff(v.filter.cutoffSmoother.Target() * mod.CutoffFactor)
	v.filter.SetResonance(v.filter.resonanceSmoother.Target() + mod.ResonanceOffset)

	fxOut := v.chain.Process(raw)

	gain := math32.Max(1+mod.AmpOffset, 0)
	sample := fxOut * envLevel * gain

	pan := clampPan(v.Pan + mod.PanOffset)
	l, r := equalPowerPan(pan)
	return sample * l, sample * r
}

// equalPowerPan returns the left/right gains for an equal-power pan
// law at p in [-1,1].
func equalPowerPan(p float32) (left, right float32) {
	angle := (p + 1) * 0.25 * math32.Pi // maps [-1,1] -> [0, pi/2]
	return math32.Cos(angle), math32.Sin(angle)
}
