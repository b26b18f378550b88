// Package audio wires the synthesis core into a pulled audio
// callback: ring draining, the per-frame render loop, dynamic mix
// gain, soft clipping, format conversion, and the advisory CPU load
// and device-error reporting that the control context watches.
package audio

import (
	"sync/atomic"
	"time"

	"github.com/chewxy/math32"

	"corewave"
	"corewave/command"
	"corewave/dsp"
	"corewave/midi"
	"corewave/ring"
	"corewave/synth"
	"corewave/transport"
)

const (
	midiRingCapacity    = 256
	commandRingCapacity = 256
	notifyRingCapacity  = 64
)

// heldEvent is a MIDI event whose SamplesFromNow offset did not fall
// at 0 when it was drained, so it is parked until the per-frame loop
// reaches its offset. Only MIDI carries a
// sample offset; every other command applies the instant it is
// drained.
type heldEvent struct {
	offset uint32
	event  midi.Event
}

// Engine is the hard-real-time audio callback's state, exposed to the
// backend as an io.Reader it pulls fixed-size chunks from.
type Engine struct {
	cfg        Config
	sampleRate float32

	VM        *synth.VoiceManager
	Transport *transport.Transport
	Metronome *transport.Metronome

	MidiRing    *ring.SPSC[midi.Timed]
	CommandRing *ring.SPSC[command.Command]
	NotifyRing  *ring.SPSC[command.Notification]

	held []heldEvent

	cpu       CPULoad
	deviceErr EngineDeviceError

	callbackCount uint64

	leftScratch  []float32
	rightScratch []float32
	clickScratch []float32
	byteScratch  []byte
	carry        []byte

	globals synth.GlobalParams
}

// EngineDeviceError is an atomic one-shot flag + message the callback
// writes on stream failure, read by the control context.
type EngineDeviceError struct {
	flag atomic.Bool
	msg  atomic.Value // string
}

// NewEngine allocates every buffer the callback will ever touch; after
// this call, nothing on the Read path allocates.
func NewEngine(cfg Config) *Engine {
	sr := float32(cfg.SampleRate)
	e := &Engine{
		cfg:          cfg,
		sampleRate:   sr,
		VM:           synth.NewVoiceManager(cfg.VoiceCount, sr),
		Transport:    transport.NewTransport(sr, 120, transport.TimeSignature{Numerator: 4, Denominator: 4}),
		Metronome:    transport.NewMetronome(sr),
		MidiRing:     ring.New[midi.Timed](midiRingCapacity),
		CommandRing:  ring.New[command.Command](commandRingCapacity),
		NotifyRing:   ring.New[command.Notification](notifyRingCapacity),
		held:         make([]heldEvent, 0, 64),
		leftScratch:  make([]float32, cfg.BufferSize),
		rightScratch: make([]float32, cfg.BufferSize),
		clickScratch: make([]float32, cfg.BufferSize),
		byteScratch:  make([]byte, 0, cfg.BufferSize*cfg.Channels*cfg.Format.BytesPerSample()),
	}
	e.VM.PolyMode = toSynthPolyMode(cfg.PolyMode)
	e.globals = synth.GlobalParams{
		MasterVolume: 1, FilterType: synth.LowPass, FilterCutoff: 20000, FilterResonance: 0.7, FilterEnabled: true,
		Attack: 0.01, Decay: 0.1, Sustain: 0.8, Release: 0.3, OscKind: synth.Sine,
	}
	e.VM.SetGlobals(e.globals)
	return e
}

func toSynthPolyMode(m corewave.PolyMode) synth.PolyMode {
	switch m {
	case corewave.PolyModeMono:
		return synth.Mono
	case corewave.PolyModeLegato:
		return synth.Legato
	default:
		return synth.Poly
	}
}

// drainRings pulls every pending MIDI/command event. MidiRing drains
// fully before CommandRing, so a MIDI event already queued this
// callback window is always applied before any command queued the
// same window. Events at offset 0 are applied immediately; events
// with a positive offset are parked in held.
func (e *Engine) drainRings() {
	for {
		t, ok := e.MidiRing.TryPop()
		if !ok {
			break
		}
		ev := t.Event
		if t.SamplesFromNow == 0 {
			e.applyMidi(ev)
		} else {
			e.held = append(e.held, heldEvent{offset: t.SamplesFromNow, event: ev})
		}
	}
	for {
		c, ok := e.CommandRing.TryPop()
		if !ok {
			break
		}
		if c.Kind == command.Midi {
			if c.Midi.SamplesFromNow == 0 {
				e.applyMidi(c.Midi.Event)
			} else {
				e.held = append(e.held, heldEvent{offset: c.Midi.SamplesFromNow, event: c.Midi.Event})
			}
			continue
		}
		e.applyCommand(c)
	}
}

// applyHeldAt applies and removes every held event whose offset equals
// i, the current frame within this render chunk.
func (e *Engine) applyHeldAt(i uint32) {
	remaining := e.held[:0]
	for _, h := range e.held {
		if h.offset == i {
			e.applyMidi(h.event)
			continue
		}
		remaining = append(remaining, h)
	}
	e.held = remaining
}

// decrementHeld subtracts n from every surviving held event's offset.
func (e *Engine) decrementHeld(n uint32) {
	for i := range e.held {
		if e.held[i].offset >= n {
			e.held[i].offset -= n
		} else {
			e.held[i].offset = 0
		}
	}
}

func (e *Engine) applyMidi(ev midi.Event) {
	switch ev.Kind {
	case midi.NoteOn:
		e.VM.NoteOn(ev.Note, ev.Velocity)
	case midi.NoteOff:
		e.VM.NoteOff(ev.Note)
	case midi.ControlChange:
		if ev.Controller == 1 {
			e.VM.SetModWheel(ev.Value)
		}
	case midi.ChannelPressure:
		e.VM.SetAftertouch(ev.Value)
	case midi.PitchBend:
		e.VM.SetPitchBend(ev.Bend)
	}
}

func (e *Engine) applyCommand(c command.Command) {
	switch c.Kind {
	case command.SetVolume:
		e.globals.MasterVolume = corewave.RangeMasterVolume.Clamp(c.Float)
		e.echoParameter(command.SetVolume, e.globals.MasterVolume)
	case command.SetPan:
		e.globals.MasterPan = corewave.RangeMasterPan.Clamp(c.Float)
		e.echoParameter(command.SetPan, e.globals.MasterPan)
	case command.SetWaveform:
		e.globals.OscKind = synth.Kind(c.Int)
	case command.SetAdsr:
		e.globals.Attack = corewave.RangeADSRTime.Clamp(c.Adsr.Attack)
		e.globals.Decay = corewave.RangeADSRTime.Clamp(c.Adsr.Decay)
		e.globals.Sustain = corewave.RangeADSRSustain.Clamp(c.Adsr.Sustain)
		e.globals.Release = corewave.RangeADSRTime.Clamp(c.Adsr.Release)
	case command.SetLfo:
		e.applyLfo(c.Lfo)
	case command.SetFilter:
		e.globals.FilterType = synth.FilterType(c.Filter.Type)
		e.globals.FilterCutoff = corewave.RangeFilterCutoff.Clamp(c.Filter.Cutoff)
		e.globals.FilterResonance = corewave.RangeFilterResonance.Clamp(c.Filter.Resonance)
		e.globals.FilterEnabled = c.Filter.Enabled
	case command.SetPolyMode:
		e.VM.PolyMode = toSynthPolyMode(corewave.PolyMode(c.Int))
	case command.SetPortamento:
		e.globals.PortamentoTime = corewave.RangePortamentoTime.Clamp(c.Float)
	case command.SetModRouting:
		e.applyModRouting(c.ModRouting)
	case command.ClearModRouting:
		e.clearModRouting(c.Int)
	case command.SetTempo:
		e.Transport.SetTempo(corewave.RangeTempo.Clamp(c.Float))
	case command.SetTimeSignature:
		e.Transport.SetTimeSignature(transport.TimeSignature{Numerator: c.TimeSig.Numerator, Denominator: c.TimeSig.Denominator})
	case command.SetTransportPlaying:
		if c.Bool {
			e.Transport.Play()
		} else {
			e.Transport.Pause()
		}
	case command.SetTransportPosition:
		e.Transport.SetPosition(int64(c.Int))
	case command.SetMetronomeEnabled:
		e.Metronome.Enabled = c.Bool
	case command.SetMetronomeVolume:
		e.Metronome.Volume = corewave.RangeMasterVolume.Clamp(c.Float)
	case command.SetSampleBuffer:
		e.VM.SetSampleBuffer(c.SampleBuffer)
	}
	e.VM.ApplyGlobalsToAll()
}

// echoParameter pushes the value the callback actually applied back
// to the control context, so a UI reflects the clamped value rather
// than assuming its own request was honored verbatim. Only SetVolume
// and SetPan are echoed, once per applied command.
func (e *Engine) echoParameter(kind command.Kind, value float32) {
	e.NotifyRing.TryPush(command.Notification{
		Kind: command.ParameterEcho, Level: command.LevelInfo, Category: command.CategoryGeneric,
		ParamKind: kind, ParamValue: value,
	})
}

// applyLfo writes an LFO's kind/rate/depth into the globals slot the
// command's Index selects, and routes that LFO onto Destination
// through a reserved modulation slot (the last two of
// synth.ModMatrixSlots, one per LFO) so SetLfo's own Destination field
// doesn't collide with user-assigned SetModRouting slots.
func (e *Engine) applyLfo(l command.Lfo) {
	rate := corewave.RangeLFORate.Clamp(l.Rate)
	depth := corewave.RangeLFODepth.Clamp(l.Depth)
	source := synth.ModSourceLFO1
	if l.Index == 0 {
		e.globals.LFO1Kind = synth.Kind(l.Kind)
		e.globals.LFO1Rate = rate
		e.globals.LFO1Depth = depth
	} else {
		source = synth.ModSourceLFO2
		e.globals.LFO2Kind = synth.Kind(l.Kind)
		e.globals.LFO2Rate = rate
		e.globals.LFO2Depth = depth
	}
	slot := lfoRoutingSlot(l.Index)
	for _, v := range e.VM.Voices() {
		v.ModMatrix().Slots[slot] = synth.ModSlot{
			Source: source, Destination: synth.ModDestination(l.Destination), Depth: 1, Enabled: true,
		}
	}
}

func lfoRoutingSlot(index int) int {
	if index == 0 {
		return synth.ModMatrixSlots - 2
	}
	return synth.ModMatrixSlots - 1
}

func (e *Engine) applyModRouting(r command.ModRouting) {
	if r.Slot < 0 || r.Slot >= synth.ModMatrixSlots {
		return
	}
	for _, v := range e.VM.Voices() {
		m := v.ModMatrix()
		m.Slots[r.Slot] = synth.ModSlot{
			Source:      synth.ModSource(r.Source),
			Destination: synth.ModDestination(r.Destination),
			Depth:       clampDepth(r.Depth),
			Enabled:     r.Enabled,
		}
	}
}

func (e *Engine) clearModRouting(slot int) {
	if slot < 0 || slot >= synth.ModMatrixSlots {
		return
	}
	for _, v := range e.VM.Voices() {
		v.ModMatrix().Slots[slot] = synth.ModSlot{}
	}
}

func clampDepth(d float32) float32 {
	if d < -1 {
		return -1
	}
	if d > 1 {
		return 1
	}
	return d
}

// renderChunk drains pending events, advances the transport and every
// voice by exactly cfg.BufferSize frames, and mixes the result into
// e.leftScratch/e.rightScratch.
func (e *Engine) renderChunk() {
	var callbackStart time.Time
	measureThisCallback := e.callbackCount%8 == 0 // CPU timing is sampled, not measured every callback
	if measureThisCallback {
		callbackStart = time.Now()
	}
	e.callbackCount++

	e.drainRings()
	e.VM.ApplyGlobalsToAll()

	n := uint32(e.cfg.BufferSize)
	for i := uint32(0); i < n; i++ {
		e.applyHeldAt(i)

		e.Transport.Advance()
		if e.Metronome.Enabled && e.Transport.State() == transport.Playing {
			if offset, accent, ok := transport.NextBeatBoundary(e.Transport.Position(), 1, e.Transport.Tempo(), e.sampleRate, e.Transport.TimeSignature()); ok && offset == 0 {
				e.Metronome.Trigger(accent)
			}
		}

		l, r, active := e.VM.Render()
		gain := float32(1) / math32.Sqrt(float32(active+1)) * 0.7
		e.leftScratch[i] = l * gain
		e.rightScratch[i] = r * gain
		e.clickScratch[i] = e.Metronome.Next()
	}

	e.decrementHeld(n)

	// Master volume is constant across the whole chunk once drainRings
	// has run, so the remaining mix stages run buffer-wide rather than
	// per sample: vek32 for the vectorizable multiply/add, dsp's
	// buffer helpers for the clip/denormal guard.
	scaleBuffer(e.leftScratch, e.globals.MasterVolume)
	scaleBuffer(e.rightScratch, e.globals.MasterVolume)
	addBuffer(e.leftScratch, e.clickScratch)
	addBuffer(e.rightScratch, e.clickScratch)
	dsp.FlushDenormalBuffer(e.leftScratch)
	dsp.FlushDenormalBuffer(e.rightScratch)
	dsp.SoftClipBuffer(e.leftScratch)
	dsp.SoftClipBuffer(e.rightScratch)

	if measureThisCallback {
		elapsed := time.Since(callbackStart)
		budget := float32(e.cfg.BufferSize) / e.sampleRate
		e.cpu.Record(float32(elapsed.Seconds()) / budget)
		if e.cpu.Overloaded() {
			e.NotifyRing.TryPush(command.Notification{
				Kind: command.CpuUsage, Level: command.LevelWarning, Category: command.CategoryCpu,
				CpuPercent: e.cpu.Average(),
			})
		}
	}
}

// ReportDeviceError records a backend failure without unwinding; the
// control context polls DeviceError to notice it.
func (e *Engine) ReportDeviceError(reason string) {
	e.deviceErr.msg.Store(reason)
	e.deviceErr.flag.Store(true)
	e.NotifyRing.TryPush(command.Notification{
		Kind: command.DeviceError, Level: command.LevelError, Category: command.CategoryAudio,
		Err: reason,
	})
}

// DeviceError reports whether the backend has signaled a failure, and
// the most recent reason if so.
func (e *Engine) DeviceError() (bool, string) {
	if !e.deviceErr.flag.Load() {
		return false, ""
	}
	reason, _ := e.deviceErr.msg.Load().(string)
	return true, reason
}

// ClearDeviceError resets the error flag once the control context has
// reconnected.
func (e *Engine) ClearDeviceError() { e.deviceErr.flag.Store(false) }

// CPUPercent returns the current sliding-window CPU load average.
func (e *Engine) CPUPercent() float32 { return e.cpu.Average() }

// Read implements io.Reader, pulled by the backend once per device
// buffer refill. It renders whole cfg.BufferSize chunks and serves
// bytes out of a small carry buffer so callers may request any size.
func (e *Engine) Read(p []byte) (n int, err error) {
	for len(p) > 0 {
		if len(e.carry) == 0 {
			e.renderChunk()
			e.byteScratch = e.byteScratch[:0]
			e.byteScratch = InterleaveStereo(e.leftScratch, e.rightScratch, e.cfg.Format, e.byteScratch)
			e.carry = e.byteScratch
		}
		copied := copy(p, e.carry)
		p = p[copied:]
		e.carry = e.carry[copied:]
		n += copied
	}
	return n, nil
}
