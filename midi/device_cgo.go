//go:build cgo

package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// DeviceContext opens real MIDI input ports through rtmidi: a
// device-driven event source logically distinct from the control
// context, producing Timed events that the caller pushes into the
// audio context's MIDI ring.
type DeviceContext struct {
	driver *rtmididrv.Driver
	in     drivers.In
	sink   func(raw []byte, timestampUs float64)
}

// NewDeviceContext opens the rtmidi driver. sink is called from the
// driver's own delivery goroutine for every raw message received; the
// caller is expected to timestamp and hand it to a Parser and push the
// result into a ring, never block inside sink.
func NewDeviceContext(sink func(raw []byte, timestampUs float64)) (*DeviceContext, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("midi: opening rtmidi driver: %w", err)
	}
	return &DeviceContext{driver: drv, sink: sink}, nil
}

// Inputs lists the currently visible MIDI input port names.
func (d *DeviceContext) Inputs() ([]string, error) {
	ins, err := d.driver.Ins()
	if err != nil {
		return nil, fmt.Errorf("midi: listing inputs: %w", err)
	}
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	return names, nil
}

// Open opens the named input port (exact name match only), closing
// any previously open port first.
func (d *DeviceContext) Open(name string) error {
	ins, err := d.driver.Ins()
	if err != nil {
		return fmt.Errorf("midi: listing inputs: %w", err)
	}
	var target drivers.In
	for _, in := range ins {
		if in.String() == name {
			target = in
			break
		}
	}
	if target == nil {
		return fmt.Errorf("midi: no input port named %q", name)
	}
	if d.in != nil && d.in.IsOpen() {
		d.in.Close()
	}
	if err := target.Open(); err != nil {
		return fmt.Errorf("midi: opening input %q: %w", name, err)
	}
	d.in = target
	_, err = gomidi.ListenTo(target, func(msg gomidi.Message, timestampms int32) {
		d.sink([]byte(msg), float64(timestampms)*1000)
	})
	if err != nil {
		target.Close()
		d.in = nil
		return fmt.Errorf("midi: listening on %q: %w", name, err)
	}
	return nil
}

// Close closes the currently open input and the driver.
func (d *DeviceContext) Close() error {
	if d.in != nil && d.in.IsOpen() {
		if err := d.in.Close(); err != nil {
			return fmt.Errorf("midi: closing input: %w", err)
		}
	}
	if d.driver != nil {
		return d.driver.Close()
	}
	return nil
}

// IsOpen reports whether an input port is currently open.
func (d *DeviceContext) IsOpen() bool {
	return d.in != nil && d.in.IsOpen()
}
