package synth

// SampleBuffer is a pre-decoded PCM buffer a Sampler voice plays back.
// Frames holds interleaved samples, Channels 1 (mono) or 2 (stereo).
// Decoding PCM/WAV/FLAC into this shape happens outside this module.
type SampleBuffer struct {
	Frames     []float32
	Channels   int
	SampleRate float32
	RootNote   uint8 // MIDI note this buffer was recorded at, unpitched
	LoopStart  int   // in frames
	LoopLength int   // in frames, 0 disables looping
}

func (b *SampleBuffer) frameCount() int {
	if b.Channels <= 0 {
		return 0
	}
	return len(b.Frames) / b.Channels
}

func (b *SampleBuffer) frameAt(i int) (left, right float32) {
	n := b.frameCount()
	if n == 0 {
		return 0, 0
	}
	if b.LoopLength > 0 {
		for i >= b.LoopStart+b.LoopLength {
			i -= b.LoopLength
		}
	}
	if i < 0 || i >= n {
		return 0, 0
	}
	if b.Channels == 1 {
		return b.Frames[i], b.Frames[i]
	}
	return b.Frames[i*2], b.Frames[i*2+1]
}

// Sampler is a voice variant that plays back a SampleBuffer instead of
// driving an oscillator, sharing the envelope, filter and pan stages
// a normal Voice uses; it has no delay/reverb effect chain of its
// own. readPos advances at a
// pitch-derived rate with linear interpolation between frames.
type Sampler struct {
	Buffer *SampleBuffer

	env        Envelope
	filter     Filter
	sampleRate float32

	readPos    float64
	rate       float64
	state      VoiceState
	note       uint8
	velocity   uint8
	pan        float32
	AgeSamples uint64
}

// NewSampler prepares a sampler voice for sampleRate playback.
func NewSampler(sampleRate float32) *Sampler {
	s := &Sampler{sampleRate: sampleRate}
	s.env.SetSampleRate(sampleRate)
	s.filter.Init(sampleRate, 20000, 0.7)
	s.filter.Enabled = true
	return s
}

// Trigger starts playback of Buffer from frame zero at the pitch rate
// derived from note relative to Buffer.RootNote, scaled by the ratio
// of the buffer's native sample rate to the engine's.
func (s *Sampler) Trigger(note, velocity uint8) {
	s.note, s.velocity = note, velocity
	s.readPos = 0
	s.AgeSamples = 0
	if s.Buffer != nil && s.Buffer.SampleRate > 0 {
		noteFreq := NoteFrequency(note)
		rootFreq := NoteFrequency(s.Buffer.RootNote)
		s.rate = float64(noteFreq/rootFreq) * float64(s.Buffer.SampleRate/s.sampleRate)
	} else {
		s.rate = 1
	}
	s.state = VoiceActive
	s.env.NoteOn(velocity)
}

// Release begins the envelope release.
func (s *Sampler) Release() {
	if s.state == VoiceIdle {
		return
	}
	s.state = VoiceReleasing
	s.env.NoteOff()
}

// Active reports whether this sampler voice still needs rendering.
func (s *Sampler) Active() bool { return s.state != VoiceIdle }

// Note reports the MIDI note this sampler voice was last triggered
// with, used by VoiceManager to route NoteOff to matching voices.
func (s *Sampler) Note() uint8 { return s.note }

// ApplyGlobals mirrors the ADSR, filter and master pan portion of
// GlobalParams into this sampler voice, the same subset of parameters
// a regular Voice receives through its own ApplyGlobals; a sampler has
// no oscillator/portamento/LFO parameters to mirror since it plays
// back a fixed buffer instead of synthesizing one.
func (s *Sampler) ApplyGlobals(g *GlobalParams) {
	s.env.Attack, s.env.Decay, s.env.Sustain, s.env.Release = g.Attack, g.Decay, g.Sustain, g.Release
	s.env.SetSampleRate(s.sampleRate)
	s.filter.Type = g.FilterType
	s.filter.Enabled = g.FilterEnabled
	s.filter.SetCutoff(g.FilterCutoff)
	s.filter.SetResonance(g.FilterResonance)
	s.pan = g.MasterPan
}

// Next advances playback by one sample and returns a filtered, panned
// stereo pair. Reaching the end of a non-looped buffer forces the
// voice to Idle.
func (s *Sampler) Next() (left, right float32) {
	if s.state == VoiceIdle || s.Buffer == nil {
		return 0, 0
	}
	s.AgeSamples++
	i0 := int(s.readPos)
	frac := float32(s.readPos - float64(i0))
	l0, r0 := s.Buffer.frameAt(i0)
	l1, r1 := s.Buffer.frameAt(i0 + 1)
	l := l0 + (l1-l0)*frac
	r := r0 + (r1-r0)*frac

	s.readPos += s.rate
	if s.Buffer.LoopLength == 0 && int(s.readPos) >= s.Buffer.frameCount() {
		s.state = VoiceIdle
	}

	envLevel := s.env.Next()
	if s.env.Stage == Idle {
		s.state = VoiceIdle
	}

	l = s.filter.Process(l) * envLevel
	r = s.filter.Process(r) * envLevel

	panL, panR := equalPowerPan(clampPan(s.pan))
	return l * panL, r * panR
}
