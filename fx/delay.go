// Package fx implements the per-voice and master effect chain: a
// circular-buffer delay, a Freeverb-style reverb, and the chain
// wrapper that threads a sample through whichever of them are enabled.
// Every buffer is pre-allocated at construction for the worst case so
// nothing in Process ever allocates.
package fx

import "corewave/dsp"

// Delay is a feedback delay line with a smoothed length so changing
// Time doesn't click.
type Delay struct {
	Enabled  bool
	TimeMS   float32 // [0,1000]
	Feedback float32 // [0,0.99]
	Mix      float32 // [0,1]

	buf        []float32
	writePos   int
	sampleRate float32
	length     dsp.Smoother // smoothed delay length, in samples
}

// NewDelay pre-allocates a buffer large enough for 1 second of delay
// at sampleRate, the worst case the Time parameter allows.
func NewDelay(sampleRate float32) *Delay {
	d := &Delay{sampleRate: sampleRate}
	size := int(sampleRate*1.0) + 1
	d.buf = make([]float32, size)
	d.length.SetTime(0.02, sampleRate)
	return d
}

// SetTimeMS updates the smoothing target for delay length.
func (d *Delay) SetTimeMS(ms float32) {
	d.TimeMS = ms
	samples := ms / 1000 * d.sampleRate
	d.length.SetTarget(samples)
}

// Reset clears the delay line and its smoothed length.
func (d *Delay) Reset() {
	for i := range d.buf {
		d.buf[i] = 0
	}
	d.writePos = 0
	d.length.SetImmediate(d.length.Target())
}

// LatencySamples reports the delay's contribution to the chain's
// reported latency: zero, since a feedback delay's wet signal is
// still produced every sample (it is a color effect, not a lookahead).
func (d *Delay) LatencySamples() int { return 0 }

// Process returns dry/wet-mixed output for one input sample and
// advances the delay line.
func (d *Delay) Process(in float32) float32 {
	n := len(d.buf)
	delaySamples := d.length.Next()
	readPosF := float32(d.writePos) - delaySamples
	for readPosF < 0 {
		readPosF += float32(n)
	}
	i0 := int(readPosF) % n
	i1 := (i0 + 1) % n
	frac := readPosF - float32(int(readPosF))
	wet := d.buf[i0]*(1-frac) + d.buf[i1]*frac
	wet = dsp.FlushDenormal(wet)

	d.buf[d.writePos] = dsp.FlushDenormal(in + d.Feedback*wet)
	d.writePos = (d.writePos + 1) % n

	return (1-d.Mix)*in + d.Mix*wet
}
