// Package synth adapts the meltysynth SoundFont engine to the Synthesizer
// contract.
package synth

import (
	"errors"
	"fmt"
	"io"

	"github.com/fluxaudio/midisynth/sdk/contracts"
	"github.com/sinshu/go-meltysynth/meltysynth"
)

// ErrNotConfigured is returned when rendering is requested before
// SetOutputFormat.
var ErrNotConfigured = errors.New("synth: output format not configured")

type engine struct {
	font *meltysynth.SoundFont
	inst *meltysynth.Synthesizer

	// Scratch planes for de-interleaving; meltysynth renders split stereo.
	left  []float32
	right []float32
}

// Load parses a SoundFont from r. The synthesizer itself is built lazily by
// SetOutputFormat, since meltysynth fixes the sample rate at construction.
func Load(r io.Reader) (contracts.Synthesizer, error) {
	font, err := meltysynth.NewSoundFont(r)
	if err != nil {
		return nil, fmt.Errorf("synth: parse sound bank: %w", err)
	}
	return &engine{font: font}, nil
}

func (e *engine) SetOutputFormat(sampleRate int) error {
	settings := meltysynth.NewSynthesizerSettings(int32(sampleRate))
	inst, err := meltysynth.NewSynthesizer(e.font, settings)
	if err != nil {
		return fmt.Errorf("synth: create synthesizer at %d Hz: %w", sampleRate, err)
	}
	e.inst = inst
	return nil
}

func (e *engine) NoteOn(channel, key int, velocity float32) {
	if e.inst == nil {
		return
	}
	if velocity < 0 {
		velocity = 0
	} else if velocity > 1 {
		velocity = 1
	}
	e.inst.NoteOn(int32(channel), int32(key), int32(velocity*127+0.5))
}

func (e *engine) NoteOff(channel, key int) {
	if e.inst == nil {
		return
	}
	e.inst.NoteOff(int32(channel), int32(key))
}

func (e *engine) SetPreset(channel, preset int, drums bool) {
	if e.inst == nil {
		return
	}
	// meltysynth resolves the percussion bank for channel 9 on its own, so
	// the drums flag is implied by the channel index here.
	e.inst.ProcessMidiMessage(int32(channel), 0xC0, int32(preset), 0)
}

func (e *engine) SetPitchWheel(channel, value int) {
	if e.inst == nil {
		return
	}
	e.inst.ProcessMidiMessage(int32(channel), 0xE0, int32(value&0x7F), int32(value>>7))
}

func (e *engine) ControlChange(channel, controller, value int) {
	if e.inst == nil {
		return
	}
	e.inst.ProcessMidiMessage(int32(channel), 0xB0, int32(controller), int32(value))
}

func (e *engine) SetVolume(v float32) {
	if e.inst == nil {
		return
	}
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	e.inst.MasterVolume = v
}

func (e *engine) Render(buf []float32, frames int) {
	if e.inst == nil || frames <= 0 {
		return
	}
	if cap(e.left) < frames {
		e.left = make([]float32, frames)
		e.right = make([]float32, frames)
	}
	left := e.left[:frames]
	right := e.right[:frames]
	e.inst.Render(left, right)
	for i := 0; i < frames; i++ {
		buf[2*i] = left[i]
		buf[2*i+1] = right[i]
	}
}

func (e *engine) Close() error {
	if e.inst != nil {
		e.inst.NoteOffAll(true)
		e.inst = nil
	}
	e.font = nil
	return nil
}
