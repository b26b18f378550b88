package project

import "github.com/google/uuid"

// TakeID identifies one recording session. Using a uuid rather than a
// sequential counter lets multiple concurrent external consumers
// (disk writer, level meter, network streamer) each tap the mix and
// identify their own take without coordinating over a shared counter.
type TakeID uuid.UUID

// NewTakeID generates a fresh take identifier.
func NewTakeID() TakeID {
	return TakeID(uuid.New())
}

func (t TakeID) String() string {
	return uuid.UUID(t).String()
}

// Recorder is implemented by an external collaborator that wants to
// tap the post-effect stereo mix (a disk writer, a level meter, a
// network streamer) without this module knowing anything about file
// formats or transport protocols. This module only declares the
// interface: nothing in it calls these methods, and the audio callback
// never does; an implementation that needs to touch the audio path should
// buffer through its own ring rather than blocking here.
type Recorder interface {
	// BeginTake starts a new recording session and returns its id.
	BeginTake() (TakeID, error)
	// Write appends interleaved stereo samples to the current take.
	Write(samples []float32) error
	// EndTake finalizes the current take.
	EndTake() error
}
