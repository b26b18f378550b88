package project

// Song is the minimal arrangement container a control-context
// collaborator persists alongside a Patch: an ordered list of note
// events against musical time, enough to reconstruct a performance
// without this module owning a sequencer UI.
type Song struct {
	Name   string      `yaml:"name"`
	Tracks []Track     `yaml:"tracks"`
}

// Track is one named lane of note events within a Song.
type Track struct {
	Name   string  `yaml:"name"`
	Patch  string  `yaml:"patch"` // Patch.Name this track plays
	Events []Event `yaml:"events"`
}

// Event is a single scheduled note within a Track, positioned in
// absolute ticks from the start of the song (480 PPQN, matching
// transport.PPQN).
type Event struct {
	Tick     int64 `yaml:"tick"`
	Note     uint8 `yaml:"note"`
	Velocity uint8 `yaml:"velocity"`
	Duration int64 `yaml:"duration"` // in ticks
}

// Equal reports whether s and other serialize identically.
func (s Song) Equal(other Song) bool {
	if s.Name != other.Name || len(s.Tracks) != len(other.Tracks) {
		return false
	}
	for i, t := range s.Tracks {
		o := other.Tracks[i]
		if t.Name != o.Name || t.Patch != o.Patch || len(t.Events) != len(o.Events) {
			return false
		}
		for j, e := range t.Events {
			if o.Events[j] != e {
				return false
			}
		}
	}
	return true
}
