// Package softsynth implements the SoundFont MIDI driver: an output-only
// driver that translates channel-voice messages into synth-engine calls and
// renders audio on demand through the mixer.
package softsynth

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fluxaudio/midisynth/sdk/contracts"
	"go.uber.org/multierr"
)

// DriverName is the registry name of this driver.
const DriverName = "softsynth"

// soundBankFile is the fixed sound-bank filename resolved against the
// configured system directory.
const soundBankFile = "GM.SF2"

// percussionChannel is the 10th MIDI channel, reserved for drum kits.
const percussionChannel = 9

// masterVolumeSig is the universal real-time master-volume sysex signature
// (F0 7F 7F 04 01 ll mm F7) at offset 1 of an 8-byte message.
var masterVolumeSig = []byte{0x7F, 0x7F, 0x04, 0x01}

// Error definitions for driver initialization and dispatch.
var (
	ErrOutputUnspecified = errors.New("softsynth: no output target specified")
	ErrTruncatedEvent    = errors.New("softsynth: event shorter than two bytes")
	ErrInputUnsupported  = errors.New("softsynth: driver has no input capability")
	ErrClosed            = errors.New("softsynth: driver is closed")
)

// outputAliases are the human-readable names accepted as the output device.
// The underlying synth is not a real device; the host only needs one of
// these to match its configured output string.
var outputAliases = []string{"SF2", "sf2", "GM", "gm"}

// Driver owns one loaded sound-bank instance and the guard serializing all
// calls into it.
type Driver struct {
	log   contracts.Logger
	synth contracts.Synthesizer
	guard guard
	stop  func() // removes the render stream from the mixer

	closed bool
}

// New resolves the sound bank from the configured system directory, loads
// it through the synth engine and registers a render stream with the mixer.
// A missing output target or an unloadable sound bank yields no driver.
func New(o *contracts.Options) (contracts.Driver, error) {
	if o.Output == "" {
		return nil, ErrOutputUnspecified
	}

	path := filepath.Join(o.SystemDir, soundBankFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("softsynth: open sound bank: %w", err)
	}
	defer f.Close()

	engine, err := o.SynthLoader(f)
	if err != nil {
		return nil, fmt.Errorf("softsynth: load %s: %w", path, err)
	}
	if err := engine.SetOutputFormat(o.SampleRate); err != nil {
		err = multierr.Append(err, engine.Close())
		return nil, err
	}

	d := &Driver{
		log:   o.Logger,
		synth: engine,
		guard: newGuard(!o.DisableRenderLock),
	}

	stop, err := o.Mixer.PlayStream(d.render)
	if err != nil {
		return nil, multierr.Append(
			fmt.Errorf("softsynth: register render stream: %w", err),
			engine.Close())
	}
	d.stop = stop
	o.Mixer.SetActive(true)

	o.Logger.Info("softsynth driver initialized",
		"soundbank", path, "sampleRate", o.SampleRate)
	return d, nil
}

func (d *Driver) Name() string { return DriverName }

// AvailableInputs reports success with an empty set; this driver never
// originates MIDI.
func (d *Driver) AvailableInputs() ([]string, error) {
	return nil, nil
}

// AvailableOutputs reports the accepted output aliases.
func (d *Driver) AvailableOutputs() ([]string, error) {
	outputs := make([]string, len(outputAliases))
	copy(outputs, outputAliases)
	return outputs, nil
}

func (d *Driver) SetInput(name string) error {
	return ErrInputUnsupported
}

// SetOutput accepts any name; the real resource is the fixed sound-bank
// file, not a selectable device.
func (d *Driver) SetOutput(name string) error {
	return nil
}

// Read never reports an event.
func (d *Driver) Read(ev *contracts.Event) (bool, error) {
	return false, nil
}

// Write dispatches one channel-voice event to the synth engine. Events
// shorter than two bytes are rejected; unrecognized status nibbles and
// sysex payloads are accepted and ignored.
func (d *Driver) Write(ev contracts.Event) error {
	if len(ev.Data) < 2 {
		return ErrTruncatedEvent
	}

	channel := int(ev.Data[0] & 0x0F)
	data1 := int(ev.Data[1] & 0x7F)
	data2 := 0
	if len(ev.Data) >= 3 {
		data2 = int(ev.Data[2] & 0x7F)
	}

	d.guard.lock()
	defer d.guard.unlock()
	if d.closed {
		return ErrClosed
	}

	switch ev.Data[0] & 0xF0 {
	case contracts.StatusProgramChange:
		d.synth.SetPreset(channel, data1, channel == percussionChannel)
	case contracts.StatusNoteOn:
		d.synth.NoteOn(channel, data1, float32(data2)/127.0)
	case contracts.StatusNoteOff:
		d.synth.NoteOff(channel, data1)
	case contracts.StatusPitchBend:
		d.synth.SetPitchWheel(channel, data2<<7|data1)
	case contracts.StatusControlChange:
		d.synth.ControlChange(channel, data1, data2)
	case contracts.StatusSysex:
		// Only the master-volume message is recognized; everything else
		// passes through silently.
		if len(ev.Data) == 8 && bytes.Equal(ev.Data[1:5], masterVolumeSig) {
			value := int(ev.Data[6]&0x7F)<<7 | int(ev.Data[5]&0x7F)
			d.synth.SetVolume(float32(value) / 16383.0)
		}
	}
	return nil
}

// Flush reports success immediately; there is no internal queue to drain.
func (d *Driver) Flush() error {
	return nil
}

// render is the mixer's pull callback. The volume parameter is deliberately
// not applied here; the engine's own master volume governs amplitude.
func (d *Driver) render(buf []float32, frames int, volume float32) {
	d.guard.lock()
	defer d.guard.unlock()
	if d.closed {
		return
	}
	d.synth.Render(buf, frames)
}

// Close removes the render stream and releases the engine. Calling it again
// is a no-op.
func (d *Driver) Close() error {
	d.guard.lock()
	if d.closed {
		d.guard.unlock()
		return nil
	}
	d.closed = true
	stop := d.stop
	engine := d.synth
	d.stop = nil
	d.synth = nil
	d.guard.unlock()

	// The mixer holds its own lock while pulling render, so the stream is
	// removed outside the guard. render bails out on the closed flag.
	if stop != nil {
		stop()
	}
	err := engine.Close()
	if d.log != nil {
		d.log.Info("softsynth driver closed")
	}
	return err
}
