package audio

import "github.com/viterin/vek/vek32"

// scaleBuffer multiplies every sample of buf by gain in place, using
// vek32's vectorized multiply instead of a scalar loop for the
// buffer-wide master volume stage.
func scaleBuffer(buf []float32, gain float32) {
	vek32.MulNumber_Inplace(buf, gain)
}

// addBuffer adds src into dst in place, used to mix the metronome's
// per-chunk click samples into the voice mix before soft-clipping.
func addBuffer(dst, src []float32) {
	vek32.Add_Inplace(dst, src)
}
