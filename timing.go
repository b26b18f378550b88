package corewave

import "corewave/dsp"

// AudioTiming converts between microseconds, beats/musical positions
// and sample counts for a given sample rate and tempo. It holds no
// position state of its own; Transport owns that. It holds only the
// conversion factors.
type AudioTiming struct {
	SampleRate float32 // > 0
	BPM        float32
}

// NewAudioTiming creates a timing context. sampleRate must be > 0.
func NewAudioTiming(sampleRate, bpm float32) AudioTiming {
	return AudioTiming{SampleRate: sampleRate, BPM: bpm}
}

// SamplesPerBeat returns how many samples make up one quarter note at
// the current tempo and sample rate.
func (a AudioTiming) SamplesPerBeat() float32 {
	return dsp.SamplesPerBeat(a.BPM, a.SampleRate)
}

// MicrosecondsToSamples converts a duration in microseconds to a
// sample count.
func (a AudioTiming) MicrosecondsToSamples(us float64) int {
	return dsp.MicrosecondsToSamples(us, a.SampleRate)
}

// SamplesToSeconds converts a sample count to seconds.
func (a AudioTiming) SamplesToSeconds(samples int) float32 {
	return dsp.SamplesToSeconds(samples, a.SampleRate)
}

// BeatsToSamples converts a beat position to a sample count.
func (a AudioTiming) BeatsToSamples(beats float64) int64 {
	return dsp.BeatsToSamples(beats, a.BPM, a.SampleRate)
}

// SamplesToBeats converts a sample count to a beat position.
func (a AudioTiming) SamplesToBeats(samples int64) float64 {
	return dsp.SamplesToBeats(samples, a.BPM, a.SampleRate)
}
