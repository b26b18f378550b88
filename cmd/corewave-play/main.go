// Command corewave-play is a minimal demo host: it opens a MIDI input
// (when built with cgo), starts the audio engine, optionally loads a
// patch file, and plays until interrupted.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"corewave"
	"corewave/audio"
	"corewave/command"
	"corewave/midi"
	"corewave/project"
	"corewave/version"
)

func main() {
	patchPath := flag.String("patch", "", "Path to a .yml patch file to load at startup.")
	listInputs := flag.Bool("l", false, "List available MIDI input ports and exit.")
	inputName := flag.String("i", "", "MIDI input port to open (exact name). By default no port is opened.")
	voices := flag.Int("voices", 16, "Voice count.")
	mono := flag.Bool("mono", false, "Use mono (single-voice, retrigger) mode instead of poly.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()

	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}

	cfg := audio.DefaultConfig()
	cfg.VoiceCount = *voices
	if *mono {
		cfg.PolyMode = corewave.PolyModeMono
	}
	engine := audio.NewEngine(cfg)

	if *patchPath != "" {
		if err := applyPatchFile(engine, *patchPath); err != nil {
			fmt.Fprintf(os.Stderr, "corewave-play: %v\n", err)
			os.Exit(1)
		}
	}

	dev, err := midi.NewDeviceContext(func(raw []byte, timestampUs float64) {
		ev, err := midi.DecodeMessage(raw)
		if err != nil {
			return
		}
		engine.MidiRing.TryPush(midi.Timed{Event: ev})
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "corewave-play: midi device unavailable: %v\n", err)
	}

	if *listInputs && dev != nil {
		names, err := dev.Inputs()
		if err != nil {
			fmt.Fprintf(os.Stderr, "corewave-play: %v\n", err)
			os.Exit(1)
		}
		for _, n := range names {
			fmt.Println(n)
		}
		os.Exit(0)
	}

	if *inputName != "" && dev != nil {
		if err := dev.Open(*inputName); err != nil {
			fmt.Fprintf(os.Stderr, "corewave-play: %v\n", err)
			os.Exit(1)
		}
		defer dev.Close()
	}

	backend, err := audio.NewBackend(engine, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "corewave-play: %v\n", err)
		os.Exit(1)
	}
	defer backend.Close()

	engine.Transport.Play()
	backend.Play()

	var midiReconnect midi.ReconnectState
	if dev != nil && *inputName != "" {
		midiReconnect.Connected()
	}

	fmt.Fprintln(os.Stderr, "corewave-play: playing, press Ctrl+C to stop")
	for {
		if n, msg := engine.DeviceError(); n {
			fmt.Fprintf(os.Stderr, "corewave-play: device error: %s\n", msg)
			engine.ClearDeviceError()
		}
		if dev != nil && *inputName != "" {
			pollMidiReconnect(dev, *inputName, &midiReconnect)
		}
		time.Sleep(500 * time.Millisecond)
	}
}

// pollMidiReconnect notices when dev's input has dropped and retries
// opening it under midiReconnect's backoff, independent of the audio
// device's own error handling above.
func pollMidiReconnect(dev *midi.DeviceContext, name string, state *midi.ReconnectState) {
	if dev.IsOpen() {
		state.Connected()
		return
	}
	if state.IsConnected() {
		state.Disconnected()
	}
	if state.ShouldRetry(time.Now()) {
		if err := dev.Open(name); err != nil {
			fmt.Fprintf(os.Stderr, "corewave-play: midi reconnect failed: %v\n", err)
		} else {
			state.Connected()
			fmt.Fprintf(os.Stderr, "corewave-play: midi reconnected to %q\n", name)
		}
	} else if state.Exhausted() {
		fmt.Fprintf(os.Stderr, "corewave-play: midi reconnect attempts exhausted for %q\n", name)
	}
}

// applyPatchFile loads a yaml-encoded Patch and pushes a command
// sequence that reconstructs it onto the engine's CommandRing. Only
// the fields the flat Command payload understands are replayed; an
// unrecognized waveform name is ignored rather than rejected, leaving
// the engine's default oscillator in place.
func applyPatchFile(e *audio.Engine, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading patch file %q: %w", path, err)
	}
	var p project.Patch
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("parsing patch file %q: %w", path, err)
	}
	for k := corewave.OscSine; k <= corewave.OscTriangle; k++ {
		if p.Waveform == k.String() {
			e.CommandRing.TryPush(command.Command{Kind: command.SetWaveform, Int: int(k)})
			break
		}
	}
	if vol, ok := p.Parameters["volume"]; ok {
		e.CommandRing.TryPush(command.Command{Kind: command.SetVolume, Float: float32(vol) / 100})
	}
	if cutoff, ok := p.Parameters["cutoff"]; ok {
		e.CommandRing.TryPush(command.Command{Kind: command.SetFilter, Filter: command.FilterParams{
			Cutoff: float32(cutoff), Resonance: 0.7, Enabled: true,
		}})
	}
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "corewave-play: minimal real-time synth demo host.\nUsage: %s [flags]\n", os.Args[0])
	flag.PrintDefaults()
}
