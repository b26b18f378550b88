package audio

import (
	"fmt"

	"github.com/ebitengine/oto/v3"
)

// Backend owns the platform audio stream pulling from an *Engine. It
// is the only place in this package that touches the oto/v3 API
// directly, keeping the one concrete backend isolated in a single
// small file.
type Backend struct {
	ctx    *oto.Context
	player *oto.Player
	ready  chan struct{}
}

// otoFormat maps SampleFormat onto oto/v3's format constants. oto/v3
// has no native unsigned-16 format, so NewBackend rejects FormatU16
// before this is called; every format other than FormatF32 maps to
// signed 16-bit.
func otoFormat(f SampleFormat) oto.Format {
	switch f {
	case FormatF32:
		return oto.FormatFloat32LE
	default:
		return oto.FormatSignedInt16LE
	}
}

// NewBackend opens the platform audio device and starts it pulling
// from engine via its io.Reader interface.
func NewBackend(engine *Engine, cfg Config) (*Backend, error) {
	if cfg.Format == FormatU16 {
		return nil, fmt.Errorf("audio: oto/v3 backend has no unsigned-16 format, use FormatI16 or FormatF32")
	}
	opts := &oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       otoFormat(cfg.Format),
	}
	ctx, ready, err := oto.NewContext(opts)
	if err != nil {
		return nil, fmt.Errorf("audio: cannot create oto context: %w", err)
	}
	b := &Backend{ctx: ctx, ready: ready}
	<-ready
	b.player = ctx.NewPlayer(engine)
	return b, nil
}

// Play starts the stream pulling audio from the engine.
func (b *Backend) Play() { b.player.Play() }

// Close stops the stream and releases the player.
func (b *Backend) Close() error {
	if err := b.player.Close(); err != nil {
		return fmt.Errorf("audio: cannot close oto player: %w", err)
	}
	return nil
}

// IsPlaying reports whether the backend is actively pulling samples.
func (b *Backend) IsPlaying() bool { return b.player.IsPlaying() }
