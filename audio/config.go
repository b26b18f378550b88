package audio

import "corewave"

// Config describes the fixed audio parameters an Engine is built
// for. None of these change after NewEngine: changing sample rate or
// buffer size requires tearing down and rebuilding the engine, since
// every internal buffer is sized from these values exactly once.
type Config struct {
	SampleRate int
	Channels   int // must be 2; kept explicit rather than assumed
	BufferSize int // frames per internal render chunk
	VoiceCount int
	PolyMode   corewave.PolyMode
	Format     SampleFormat
}

// DefaultConfig returns the configuration the CLI demo uses absent
// explicit flags.
func DefaultConfig() Config {
	return Config{
		SampleRate: 48000,
		Channels:   2,
		BufferSize: 512,
		VoiceCount: 16,
		PolyMode:   corewave.PolyModePoly,
		Format:     FormatI16,
	}
}
