package transport

import "github.com/chewxy/math32"

// clickDurationSeconds is the length of each pre-rendered click.
const clickDurationSeconds = 0.010

// renderClick synthesizes one exponentially-decaying sine burst at
// freqHz, sampleRate samples long enough for clickDurationSeconds.
func renderClick(freqHz, sampleRate float32) []float32 {
	n := int(clickDurationSeconds * sampleRate)
	if n < 1 {
		n = 1
	}
	buf := make([]float32, n)
	decay := math32.Exp(-5) // envelope falls to e^-5 over the click
	tau := -float32(n) / math32.Log(decay)
	for i := 0; i < n; i++ {
		t := float32(i)
		env := math32.Exp(-t / tau)
		buf[i] = math32.Sin(2*math32.Pi*freqHz*t/sampleRate) * env
	}
	return buf
}

// Metronome mixes pre-rendered accent/regular clicks into the output
// at each beat boundary; it performs no synthesis at runtime, only
// buffer lookup and mixing, keeping it safe to call from the audio
// callback.
type Metronome struct {
	Enabled bool
	Volume  float32

	accentClick  []float32
	regularClick []float32

	playhead int // index into the currently-sounding click, -1 if silent
	playingAccent bool
	sampleRate float32
}

// NewMetronome pre-renders both click buffers for sampleRate.
func NewMetronome(sampleRate float32) *Metronome {
	return &Metronome{
		Volume:       0.8,
		accentClick:  renderClick(1200, sampleRate),
		regularClick: renderClick(800, sampleRate),
		playhead:     -1,
		sampleRate:   sampleRate,
	}
}

// Trigger starts playback of the accent or regular click from its
// first sample, called once the scheduler determines a beat boundary
// falls on the current sample.
func (m *Metronome) Trigger(accent bool) {
	m.playingAccent = accent
	m.playhead = 0
}

// Next returns the next sample of whichever click is currently
// sounding, scaled by Volume, or 0 if none is active.
func (m *Metronome) Next() float32 {
	if !m.Enabled || m.playhead < 0 {
		return 0
	}
	buf := m.regularClick
	if m.playingAccent {
		buf = m.accentClick
	}
	if m.playhead >= len(buf) {
		m.playhead = -1
		return 0
	}
	out := buf[m.playhead] * m.Volume
	m.playhead++
	return out
}

// NextBeatBoundary computes, for a transport currently at position
// with the given tempo/time signature, the sample offset within the
// next bufferLen-sample buffer at which the next beat lands, and
// whether that beat is an accent (beat 1 of a bar). ok is false if no
// beat boundary falls within this buffer.
func NextBeatBoundary(position int64, bufferLen int, bpm float32, sampleRate float32, sig TimeSignature) (offset int, accent bool, ok bool) {
	ticks := SamplesToTicks(position, bpm, sampleRate)
	ticksIntoBeat := ticks % PPQN
	ticksToNextBeat := (PPQN - ticksIntoBeat) % PPQN
	nextBeatTicks := ticks + ticksToNextBeat
	nextBeatSample := TicksToSamples(nextBeatTicks, bpm, sampleRate)
	offsetWithin := nextBeatSample - position
	if offsetWithin < 0 || offsetWithin >= int64(bufferLen) {
		return 0, false, false
	}
	beatIndex := (nextBeatTicks / PPQN) % int64(sig.Numerator)
	return int(offsetWithin), beatIndex == 0, true
}
