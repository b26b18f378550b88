// Package dsp provides the sample/beat math, smoothing, denormal and
// clipping primitives shared by every component that touches the audio
// path. Nothing in this package allocates or blocks.
package dsp

// MicrosecondsToSamples converts a duration in microseconds to a sample
// count at the given sample rate.
func MicrosecondsToSamples(us float64, sampleRate float32) int {
	return int(us * float64(sampleRate) / 1e6)
}

// SamplesToSeconds converts a sample count to seconds at the given
// sample rate.
func SamplesToSeconds(samples int, sampleRate float32) float32 {
	return float32(samples) / sampleRate
}

// SecondsToSamples converts seconds to a sample count at the given
// sample rate, rounding to the nearest sample.
func SecondsToSamples(seconds float32, sampleRate float32) int {
	return int(seconds*sampleRate + 0.5)
}

// SamplesPerBeat returns how many samples make up one beat (quarter
// note) at the given tempo and sample rate.
func SamplesPerBeat(bpm float32, sampleRate float32) float32 {
	return sampleRate * 60 / bpm
}

// BeatsToSamples converts a beat position to a sample count.
func BeatsToSamples(beats float64, bpm float32, sampleRate float32) int64 {
	return int64(beats * float64(SamplesPerBeat(bpm, sampleRate)))
}

// SamplesToBeats converts a sample count to a beat position.
func SamplesToBeats(samples int64, bpm float32, sampleRate float32) float64 {
	return float64(samples) / float64(SamplesPerBeat(bpm, sampleRate))
}
