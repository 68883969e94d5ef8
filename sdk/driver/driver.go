// Package driver exposes the MIDI driver registry. Each driver in the
// family is registered by name; Open applies option defaults and hands off
// to the matching initializer.
package driver

import (
	"errors"
	"fmt"

	"github.com/fluxaudio/midisynth/internal/midiwinmm"
	"github.com/fluxaudio/midisynth/internal/softsynth"
	"github.com/fluxaudio/midisynth/sdk/contracts"
)

// ErrUnknownDriver is returned when no driver is registered under the
// requested name.
var ErrUnknownDriver = errors.New("unknown MIDI driver")

// driverInitializers maps registry names to driver constructors.
var driverInitializers = map[string]func(*contracts.Options) (contracts.Driver, error){
	softsynth.DriverName: softsynth.New,
	"winmm":              midiwinmm.New,
}

// Open creates the named driver with the given options.
//
// Returns:
//   - contracts.Driver: the initialized driver.
//   - error: ErrUnknownDriver for an unregistered name, or the driver's
//     initialization failure.
func Open(name string, opts ...contracts.Option) (contracts.Driver, error) {
	initializer, exists := driverInitializers[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, name)
	}

	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}
	return initializer(&options)
}

// Names lists the registered driver names.
func Names() []string {
	names := make([]string, 0, len(driverInitializers))
	for name := range driverInitializers {
		names = append(names, name)
	}
	return names
}
