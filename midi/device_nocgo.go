//go:build !cgo

package midi

import "errors"

// DeviceContext is the no-cgo stand-in: rtmidi needs cgo, so without it
// we expose the same surface rather than failing to build: Inputs lists
// no ports, Open reports that no driver is available, Close does
// nothing and IsOpen is always false.
type DeviceContext struct{}

func NewDeviceContext(sink func(raw []byte, timestampUs float64)) (*DeviceContext, error) {
	return &DeviceContext{}, nil
}

func (d *DeviceContext) Inputs() ([]string, error) { return nil, nil }

func (d *DeviceContext) Open(name string) error {
	return errors.New("midi: built without cgo, no MIDI driver available")
}

func (d *DeviceContext) Close() error { return nil }

func (d *DeviceContext) IsOpen() bool { return false }
