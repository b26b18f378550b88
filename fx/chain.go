package fx

// Stage is one member of an effect Chain: a filter, delay, or reverb,
// each individually enabled/disabled and reset. Filter is satisfied by
// *synth.Filter without this package importing synth (synth already
// imports fx for Voice's effect chain, so the dependency only runs one
// way).
type Stage interface {
	Process(in float32) float32
	LatencySamples() int
	Reset()
	IsEnabled() bool
}

// delayStage and reverbStage adapt *Delay/*Reverb's Enabled field to
// the Stage interface's IsEnabled method.
type delayStage struct{ *Delay }

func (d delayStage) IsEnabled() bool { return d.Enabled }

type reverbStage struct{ *Reverb }

func (r reverbStage) IsEnabled() bool { return r.Enabled }

// WrapDelay adapts a *Delay into a chain Stage.
func WrapDelay(d *Delay) Stage { return delayStage{d} }

// WrapReverb adapts a *Reverb into a chain Stage.
func WrapReverb(r *Reverb) Stage { return reverbStage{r} }

// MaxChainLength is the maximum number of effect slots in a Chain,
// pre-allocated so building a chain never allocates past construction.
const MaxChainLength = 4

// Chain is an ordered, fixed-length sequence of effect Stages.
// Disabled stages pass their input through unchanged.
type Chain struct {
	stages [MaxChainLength]Stage
	n      int
}

// Add appends a stage to the chain. Panics if the chain is already at
// MaxChainLength, a construction-time programming error and not a
// runtime condition the audio path needs to tolerate.
func (c *Chain) Add(s Stage) {
	if c.n >= MaxChainLength {
		panic("fx: effect chain already at MaxChainLength")
	}
	c.stages[c.n] = s
	c.n++
}

// Process threads in through every enabled stage in order.
func (c *Chain) Process(in float32) float32 {
	out := in
	for i := 0; i < c.n; i++ {
		if c.stages[i].IsEnabled() {
			out = c.stages[i].Process(out)
		}
	}
	return out
}

// LatencySamples sums every member's latency.
func (c *Chain) LatencySamples() int {
	total := 0
	for i := 0; i < c.n; i++ {
		total += c.stages[i].LatencySamples()
	}
	return total
}

// Reset resets every member, enabled or not.
func (c *Chain) Reset() {
	for i := 0; i < c.n; i++ {
		c.stages[i].Reset()
	}
}
