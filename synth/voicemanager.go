package synth

// PolyMode selects how incoming notes are assigned to voices. Mirrors corewave.PolyMode; kept as a local type for the
// same import-cycle reason as ModSource/ModDestination.
type PolyMode int

const (
	Poly PolyMode = iota
	Mono
	Legato
)

// VoiceManager owns a fixed pool of voices and decides which one
// answers each NoteOn, following the configured PolyMode.
type VoiceManager struct {
	voices     []*Voice
	PolyMode   PolyMode
	globals    GlobalParams
	sampleRate float32
	stealFade  int

	// heldNotes is the last-note-priority stack used by Mono/Legato:
	// the most recently pressed still-held note is always last.
	heldNotes []heldNote

	// samplers is a second, independently-allocated voice pool used
	// instead of voices once a SampleBuffer is loaded via
	// SetSampleBuffer; a patch is either oscillator-driven or
	// sample-driven, never both at once.
	samplers     []*Sampler
	sampleBuffer *SampleBuffer
}

type heldNote struct {
	note     uint8
	velocity uint8
}

// NewVoiceManager pre-allocates voiceCount voices, none of which will
// ever need to grow or shrink the pool at runtime.
func NewVoiceManager(voiceCount int, sampleRate float32) *VoiceManager {
	vm := &VoiceManager{
		voices:     make([]*Voice, voiceCount),
		samplers:   make([]*Sampler, voiceCount),
		sampleRate: sampleRate,
		stealFade:  int(0.005 * sampleRate),
	}
	for i := range vm.voices {
		vm.voices[i] = NewVoice(sampleRate)
		vm.samplers[i] = NewSampler(sampleRate)
	}
	return vm
}

// SetSampleBuffer loads buf into every sampler voice and switches
// NoteOn/NoteOff to drive the sampler pool instead of the oscillator
// pool; buf == nil switches back to oscillator playback.
func (vm *VoiceManager) SetSampleBuffer(buf *SampleBuffer) {
	vm.sampleBuffer = buf
	for _, s := range vm.samplers {
		s.Buffer = buf
	}
}

// usingSampler reports whether NoteOn/NoteOff/Render should address
// the sampler pool rather than the oscillator voice pool.
func (vm *VoiceManager) usingSampler() bool { return vm.sampleBuffer != nil }

// SetGlobals updates the voice-manager-owned parameter set mirrored
// into every voice once per buffer.
func (vm *VoiceManager) SetGlobals(g GlobalParams) { vm.globals = g }

// ApplyGlobalsToAll mirrors the current global parameters into every
// voice; call once per buffer before rendering it.
func (vm *VoiceManager) ApplyGlobalsToAll() {
	for _, v := range vm.voices {
		v.ApplyGlobals(&vm.globals)
	}
	for _, s := range vm.samplers {
		s.ApplyGlobals(&vm.globals)
	}
}

// Voices exposes the underlying pool, e.g. for modulation-matrix
// configuration that must reach every voice identically.
func (vm *VoiceManager) Voices() []*Voice { return vm.voices }

// NoteOn allocates or retargets a voice for note/velocity according to
// PolyMode, or a free sampler voice if a SampleBuffer is loaded.
func (vm *VoiceManager) NoteOn(note, velocity uint8) {
	if vm.usingSampler() {
		vm.samplerTrigger(note, velocity)
		return
	}
	switch vm.PolyMode {
	case Mono, Legato:
		vm.heldNotes = append(vm.heldNotes, heldNote{note, velocity})
		vm.monoTrigger(note, velocity)
	default:
		vm.polyTrigger(note, velocity)
	}
}

// samplerTrigger allocates a free sampler voice, or steals one,
// always polyphonically; Mono/Legato last-note priority is an
// oscillator-voice concept the original sample-table playback units
// this is grounded on don't share.
func (vm *VoiceManager) samplerTrigger(note, velocity uint8) {
	for _, s := range vm.samplers {
		if !s.Active() {
			s.Trigger(note, velocity)
			return
		}
	}
	vm.chooseStealSampler().Trigger(note, velocity)
}

func (vm *VoiceManager) chooseStealSampler() *Sampler {
	var oldestReleasing, oldestActive *Sampler
	for _, s := range vm.samplers {
		switch s.state {
		case VoiceReleasing:
			if oldestReleasing == nil || s.AgeSamples > oldestReleasing.AgeSamples {
				oldestReleasing = s
			}
		case VoiceActive:
			if oldestActive == nil || s.AgeSamples > oldestActive.AgeSamples {
				oldestActive = s
			}
		}
	}
	if oldestReleasing != nil {
		return oldestReleasing
	}
	return oldestActive
}

// polyTrigger allocates a free voice, or steals one, for an
// independent new note.
func (vm *VoiceManager) polyTrigger(note, velocity uint8) {
	if v := vm.findIdle(); v != nil {
		v.Trigger(note, velocity, true)
		return
	}
	v := vm.chooseSteal()
	if v.State == VoiceActive {
		// ForceStop puts the envelope into a stealFade-long release, but
		// the Trigger below replaces it at once with a new attack, so no
		// fade samples are rendered before the voice is reassigned.
		v.ForceStop(vm.stealFade)
	}
	// Trigger retriggers the oscillator and envelope attack, leaving
	// Envelope.Level wherever it now sits so the amplitude glides into
	// the new attack rather than popping to zero.
	v.Trigger(note, velocity, true)
}

// monoTrigger implements Mono (always retrigger) and Legato (retarget
// without retrigger) on voice 0, the single voice either mode uses.
func (vm *VoiceManager) monoTrigger(note, velocity uint8) {
	v := vm.voices[0]
	retrigger := vm.PolyMode == Mono || !v.Active()
	v.Trigger(note, velocity, retrigger)
}

// NoteOff releases the voice(s) playing note. In Mono/Legato, if other
// held notes remain, the voice retargets to the most recent of them
// instead of releasing (last-note priority).
func (vm *VoiceManager) NoteOff(note uint8) {
	if vm.usingSampler() {
		for _, s := range vm.samplers {
			if s.Note() == note && s.state == VoiceActive {
				s.Release()
			}
		}
		return
	}
	switch vm.PolyMode {
	case Mono, Legato:
		vm.removeHeld(note)
		if len(vm.heldNotes) > 0 {
			last := vm.heldNotes[len(vm.heldNotes)-1]
			vm.voices[0].Trigger(last.note, last.velocity, vm.PolyMode == Mono)
			return
		}
		vm.voices[0].Release()
	default:
		for _, v := range vm.voices {
			if v.Note == note && v.State == VoiceActive {
				v.Release()
			}
		}
	}
}

func (vm *VoiceManager) removeHeld(note uint8) {
	for i, h := range vm.heldNotes {
		if h.note == note {
			vm.heldNotes = append(vm.heldNotes[:i], vm.heldNotes[i+1:]...)
			return
		}
	}
}

// AllNotesOff releases every active voice and clears the held-note
// stack, used for MIDI "all notes off" / panic.
func (vm *VoiceManager) AllNotesOff() {
	vm.heldNotes = vm.heldNotes[:0]
	for _, v := range vm.voices {
		v.Release()
	}
	for _, s := range vm.samplers {
		s.Release()
	}
}

func (vm *VoiceManager) findIdle() *Voice {
	for _, v := range vm.voices {
		if v.State == VoiceIdle {
			return v
		}
	}
	return nil
}

// chooseSteal picks the voice to reassign when the pool is exhausted:
// the oldest Releasing voice if any exist, else the oldest Active
// voice.
func (vm *VoiceManager) chooseSteal() *Voice {
	var oldestReleasing, oldestActive *Voice
	for _, v := range vm.voices {
		switch v.State {
		case VoiceReleasing:
			if oldestReleasing == nil || v.AgeSamples > oldestReleasing.AgeSamples {
				oldestReleasing = v
			}
		case VoiceActive:
			if oldestActive == nil || v.AgeSamples > oldestActive.AgeSamples {
				oldestActive = v
			}
		}
	}
	if oldestReleasing != nil {
		return oldestReleasing
	}
	return oldestActive
}

// Render advances every active voice by one sample and sums into a
// stereo accumulator, along with the count of voices that were active.
// Only one of the oscillator or sampler pool renders at a time,
// matching NoteOn's dispatch.
func (vm *VoiceManager) Render() (left, right float32, active int) {
	if vm.usingSampler() {
		for _, s := range vm.samplers {
			if !s.Active() {
				continue
			}
			active++
			l, r := s.Next()
			left += l
			right += r
		}
		return left, right, active
	}
	for _, v := range vm.voices {
		if !v.Active() {
			continue
		}
		active++
		l, r := v.Next()
		left += l
		right += r
	}
	return left, right, active
}

// SetModWheel/SetAftertouch/SetPitchBend broadcast a continuous
// controller update to every voice, matching MIDI channel-wide scope.
func (vm *VoiceManager) SetModWheel(v7 uint8) {
	for _, v := range vm.voices {
		v.SetModWheel(v7)
	}
}

func (vm *VoiceManager) SetAftertouch(v7 uint8) {
	for _, v := range vm.voices {
		v.SetAftertouch(v7)
	}
}

func (vm *VoiceManager) SetPitchBend(bend int16) {
	for _, v := range vm.voices {
		v.SetPitchBend(bend)
	}
}
