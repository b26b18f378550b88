package project

// Patch is the on-the-wire representation of a single instrument
// configuration: everything a SetAdsr/SetFilter/SetModRouting/etc.
// command sequence would replay to reconstruct a voice's sound.
// Parameters use a flat map (`Parameters map[string]int`) so new
// fields don't require a schema migration for every patch ever saved.
type Patch struct {
	Name       string            `yaml:"name"`
	Waveform   string            `yaml:"waveform"`
	Parameters map[string]int    `yaml:"parameters,flow"`
	ModRoutes  []ModRoute        `yaml:"mod_routes,omitempty"`
}

// ModRoute is one on-the-wire modulation matrix slot.
type ModRoute struct {
	Slot        int     `yaml:"slot"`
	Source      string  `yaml:"source"`
	Destination string  `yaml:"destination"`
	Depth       float32 `yaml:"depth"`
	Enabled     bool    `yaml:"enabled"`
}

// Equal reports whether p and other serialize identically.
func (p Patch) Equal(other Patch) bool {
	if p.Name != other.Name || p.Waveform != other.Waveform {
		return false
	}
	if len(p.Parameters) != len(other.Parameters) {
		return false
	}
	for k, v := range p.Parameters {
		if ov, ok := other.Parameters[k]; !ok || ov != v {
			return false
		}
	}
	if len(p.ModRoutes) != len(other.ModRoutes) {
		return false
	}
	for i, r := range p.ModRoutes {
		if other.ModRoutes[i] != r {
			return false
		}
	}
	return true
}
