package project

import "testing"

func TestPatchEqualDetectsParameterChange(t *testing.T) {
	a := Patch{Name: "lead", Waveform: "saw", Parameters: map[string]int{"cutoff": 2000}}
	b := Patch{Name: "lead", Waveform: "saw", Parameters: map[string]int{"cutoff": 4000}}
	if a.Equal(b) {
		t.Fatal("expected differing cutoff parameter to break equality")
	}
}

func TestPatchEqualIgnoresMapOrdering(t *testing.T) {
	a := Patch{Parameters: map[string]int{"a": 1, "b": 2}}
	b := Patch{Parameters: map[string]int{"b": 2, "a": 1}}
	if !a.Equal(b) {
		t.Fatal("expected map contents, not insertion order, to determine equality")
	}
}

func TestSongEqualDetectsEventChange(t *testing.T) {
	a := Song{Tracks: []Track{{Name: "t1", Events: []Event{{Tick: 0, Note: 60}}}}}
	b := Song{Tracks: []Track{{Name: "t1", Events: []Event{{Tick: 0, Note: 61}}}}}
	if a.Equal(b) {
		t.Fatal("expected differing note to break equality")
	}
}

func TestStateDiffAgainstReportsOnlyChangedSections(t *testing.T) {
	prior := State{Patch: Patch{Name: "a"}, Tempo: 120}
	current := State{Patch: Patch{Name: "b"}, Tempo: 120}
	d := current.DiffAgainst(prior)
	if !d.PatchChanged {
		t.Fatal("expected patch change to be detected")
	}
	if d.TempoChanged {
		t.Fatal("expected tempo to be reported unchanged")
	}
}

func TestTakeIDsAreUnique(t *testing.T) {
	a := NewTakeID()
	b := NewTakeID()
	if a.String() == b.String() {
		t.Fatal("expected successive take ids to differ")
	}
}
