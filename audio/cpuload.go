package audio

import (
	"math"
	"sync/atomic"
)

// cpuLoadWindow is the number of recent callback measurements averaged
// for the CpuUsage notification.
const cpuLoadWindow = 32

// CPULoad is a lock-free sliding-window average of per-callback CPU
// percentage, written from the audio callback and read from the
// control context.
type CPULoad struct {
	samples [cpuLoadWindow]atomic.Uint32 // float32 bits
	next    atomic.Uint32
	current atomic.Uint32 // float32 bits, the published average
}

// Record stores one callback's CPU percentage (callback_time /
// (buffer_len/sample_rate)) and republishes the window average.
func (c *CPULoad) Record(percent float32) {
	idx := c.next.Add(1) - 1
	c.samples[idx%cpuLoadWindow].Store(math.Float32bits(percent))

	var sum float32
	for i := range c.samples {
		sum += math.Float32frombits(c.samples[i].Load())
	}
	c.current.Store(math.Float32bits(sum / cpuLoadWindow))
}

// Average returns the most recently published sliding-window average.
func (c *CPULoad) Average() float32 {
	return math.Float32frombits(c.current.Load())
}

// Overloaded reports whether the average exceeds the advisory 0.75
// threshold.
func (c *CPULoad) Overloaded() bool {
	return c.Average() > 0.75
}
