//go:build windows

// Package midiwinmm implements the hardware MIDI output driver on Windows
// through the winmm midiOut API.
package midiwinmm

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/fluxaudio/midisynth/sdk/contracts"
	"golang.org/x/sys/windows"
)

// HMIDIOUT is a winmm output device handle.
type HMIDIOUT windows.Handle

// midiMapper selects the system-wide MIDI mapper instead of a concrete
// device.
const midiMapper = ^uintptr(0) // (UINT)-1

// Error definitions for device selection and dispatch.
var (
	ErrNoDevices        = errors.New("midiwinmm: no MIDI output devices found")
	ErrUnknownDevice    = errors.New("midiwinmm: output device not found")
	ErrTruncatedEvent   = errors.New("midiwinmm: event shorter than two bytes")
	ErrInputUnsupported = errors.New("midiwinmm: driver has no input capability")
)

// midiOutCaps mirrors MIDIOUTCAPSW.
type midiOutCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	wTechnology    uint16
	wVoices        uint16
	wNotes         uint16
	wChannelMask   uint16
	dwSupport      uint32
}

var (
	winmm                 = windows.NewLazySystemDLL("winmm.dll")
	procMidiOutGetNumDevs = winmm.NewProc("midiOutGetNumDevs")
	procMidiOutGetDevCaps = winmm.NewProc("midiOutGetDevCapsW")
	procMidiOutOpen       = winmm.NewProc("midiOutOpen")
	procMidiOutShortMsg   = winmm.NewProc("midiOutShortMsg")
	procMidiOutReset      = winmm.NewProc("midiOutReset")
	procMidiOutClose      = winmm.NewProc("midiOutClose")
)

// Driver sends events to a winmm MIDI output device.
type Driver struct {
	log    contracts.Logger
	handle HMIDIOUT
	open   bool
}

// New creates the winmm driver. If an output name is preselected it is
// opened immediately; otherwise the first SetOutput decides, and an empty
// name opens the MIDI mapper.
func New(o *contracts.Options) (contracts.Driver, error) {
	d := &Driver{log: o.Logger}
	if o.Output != "" {
		if err := d.SetOutput(o.Output); err != nil {
			return nil, err
		}
	}
	o.Logger.Info("winmm driver initialized", "output", o.Output)
	return d, nil
}

func (d *Driver) Name() string { return "winmm" }

// AvailableInputs reports success with an empty set; this driver family is
// output-only.
func (d *Driver) AvailableInputs() ([]string, error) {
	return nil, nil
}

// AvailableOutputs enumerates the winmm output devices.
func (d *Driver) AvailableOutputs() ([]string, error) {
	r0, _, _ := procMidiOutGetNumDevs.Call()
	numDevices := uint32(r0)
	if numDevices == 0 {
		return nil, ErrNoDevices
	}

	names := make([]string, 0, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		var caps midiOutCaps
		r1, _, _ := procMidiOutGetDevCaps.Call(
			uintptr(i),
			uintptr(unsafe.Pointer(&caps)),
			unsafe.Sizeof(caps),
		)
		if r1 != 0 {
			d.log.Warn("failed to query MIDI output device", "device", i)
			continue
		}
		names = append(names, windows.UTF16ToString(caps.szPname[:]))
	}
	return names, nil
}

func (d *Driver) SetInput(name string) error {
	return ErrInputUnsupported
}

// SetOutput opens the named output device, preferring an exact match over a
// substring match. An empty name opens the MIDI mapper. Any previously open
// device is closed first.
func (d *Driver) SetOutput(name string) error {
	if d.open {
		if err := d.closeDevice(); err != nil {
			return fmt.Errorf("midiwinmm: close previous device: %w", err)
		}
	}

	deviceID := midiMapper
	if name != "" {
		names, err := d.AvailableOutputs()
		if err != nil {
			return err
		}
		id := -1
		for i, n := range names {
			if n == name {
				id = i
				break
			}
		}
		if id < 0 {
			for i, n := range names {
				if strings.Contains(n, name) {
					id = i
					break
				}
			}
		}
		if id < 0 {
			return fmt.Errorf("%w: %s", ErrUnknownDevice, name)
		}
		deviceID = uintptr(id)
	}

	r1, _, err := procMidiOutOpen.Call(
		uintptr(unsafe.Pointer(&d.handle)),
		deviceID,
		0, // no callback
		0,
		0, // CALLBACK_NULL
	)
	if r1 != 0 {
		return fmt.Errorf("midiwinmm: open output device %q: %v", name, err)
	}
	d.open = true
	d.log.Info("MIDI output device opened", "name", name)
	return nil
}

// Read never reports an event.
func (d *Driver) Read(ev *contracts.Event) (bool, error) {
	return false, nil
}

// Write packs a channel-voice event into a short message. Sysex and other
// system messages are accepted and ignored; long-message buffering is not
// supported by this driver.
func (d *Driver) Write(ev contracts.Event) error {
	if len(ev.Data) < 2 {
		return ErrTruncatedEvent
	}
	if !d.open {
		if err := d.SetOutput(""); err != nil {
			return err
		}
	}
	if ev.Data[0] >= 0xF0 {
		return nil
	}

	msg := uintptr(ev.Data[0]) | uintptr(ev.Data[1])<<8
	if len(ev.Data) >= 3 {
		msg |= uintptr(ev.Data[2]) << 16
	}
	r1, _, err := procMidiOutShortMsg.Call(uintptr(d.handle), msg)
	if r1 != 0 {
		return fmt.Errorf("midiwinmm: send message: %v", err)
	}
	return nil
}

// Flush silences any sounding notes; winmm short messages are otherwise
// delivered synchronously.
func (d *Driver) Flush() error {
	if !d.open {
		return nil
	}
	r1, _, err := procMidiOutReset.Call(uintptr(d.handle))
	if r1 != 0 {
		return fmt.Errorf("midiwinmm: reset device: %v", err)
	}
	return nil
}

// Close releases the output device. Safe to call more than once.
func (d *Driver) Close() error {
	if !d.open {
		return nil
	}
	if err := d.closeDevice(); err != nil {
		return err
	}
	d.log.Info("winmm driver closed")
	return nil
}

func (d *Driver) closeDevice() error {
	r1, _, err := procMidiOutReset.Call(uintptr(d.handle))
	if r1 != 0 {
		return fmt.Errorf("midiwinmm: reset device: %v", err)
	}
	r1, _, err = procMidiOutClose.Call(uintptr(d.handle))
	if r1 != 0 {
		return fmt.Errorf("midiwinmm: close device: %v", err)
	}
	d.open = false
	d.handle = 0
	return nil
}
