//go:build !windows

package midiwinmm

import (
	"errors"

	"github.com/fluxaudio/midisynth/sdk/contracts"
)

// ErrUnsupportedPlatform is returned by every operation of the dummy driver.
var ErrUnsupportedPlatform = errors.New("midiwinmm: winmm output is only available on Windows")

// DummyDriver stands in for the winmm driver on non-Windows systems.
type DummyDriver struct {
	log contracts.Logger
}

// New returns the dummy driver; opening it succeeds so hosts can enumerate
// the family uniformly, but every device operation fails.
func New(o *contracts.Options) (contracts.Driver, error) {
	o.Logger.Info("using dummy winmm driver on non-Windows system")
	return &DummyDriver{log: o.Logger}, nil
}

func (d *DummyDriver) Name() string { return "winmm" }

func (d *DummyDriver) AvailableInputs() ([]string, error) {
	return nil, nil
}

func (d *DummyDriver) AvailableOutputs() ([]string, error) {
	d.log.Warn("AvailableOutputs called on dummy winmm driver")
	return nil, ErrUnsupportedPlatform
}

func (d *DummyDriver) SetInput(name string) error {
	return ErrUnsupportedPlatform
}

func (d *DummyDriver) SetOutput(name string) error {
	return ErrUnsupportedPlatform
}

func (d *DummyDriver) Read(ev *contracts.Event) (bool, error) {
	return false, nil
}

func (d *DummyDriver) Write(ev contracts.Event) error {
	d.log.Warn("Write called on dummy winmm driver")
	return ErrUnsupportedPlatform
}

func (d *DummyDriver) Flush() error {
	return nil
}

func (d *DummyDriver) Close() error {
	return nil
}
