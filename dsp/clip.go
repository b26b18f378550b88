package dsp

import "github.com/chewxy/math32"

// SoftClip applies a tanh waveshaper, the last step before a sample
// leaves the engine. tanh is monotonic and bounded to (-1,1), so it
// can never turn a finite input into an out-of-range output.
func SoftClip(x float32) float32 {
	return math32.Tanh(x)
}

// SoftClipBuffer applies SoftClip to every sample in place.
func SoftClipBuffer(buf []float32) {
	for i, x := range buf {
		buf[i] = math32.Tanh(x)
	}
}
