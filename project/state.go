// Package project exposes the boundary the core presents to an
// external project-container collaborator: a read-only
// state snapshot, YAML-serialized patch/song types, and a Recorder
// interface for tapping the post-effect mix without the core knowing
// about file formats. On-disk persistence and editing UI remain
// outside this module.
package project

import "corewave/transport"

// State is a read-only snapshot of everything an external
// collaborator would need to persist or restore a session: the active
// patch, the song arrangement, and transport settings. The control
// context constructs and diffs State values; the core never holds one
// itself.
type State struct {
	Patch         Patch
	Song          Song
	Tempo         float32
	TimeSignature transport.TimeSignature
}

// Diff reports which of Patch, Song and Tempo differ between s and
// other, so a control-context UI can decide what to re-persist without
// a full re-save. TimeSignature is not compared, so a change to it
// alone is not reported.
type Diff struct {
	PatchChanged bool
	SongChanged  bool
	TempoChanged bool
}

// DiffAgainst compares s to prior and reports what changed.
func (s State) DiffAgainst(prior State) Diff {
	return Diff{
		PatchChanged: !s.Patch.Equal(prior.Patch),
		SongChanged:  !s.Song.Equal(prior.Song),
		TempoChanged: s.Tempo != prior.Tempo,
	}
}
