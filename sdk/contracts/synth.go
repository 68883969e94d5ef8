package contracts

import "io"

// Synthesizer is the capability surface a software synth engine exposes to
// the driver layer. The driver owns exactly one instance per session and
// serializes every call through its guard; implementations do not need to
// be reentrant.
type Synthesizer interface {
	// SetOutputFormat configures interleaved stereo output at the given
	// sample rate. Must be called once before rendering.
	SetOutputFormat(sampleRate int) error

	// NoteOn starts a note. Velocity is normalized to [0, 1].
	NoteOn(channel, key int, velocity float32)

	// NoteOff stops a note on a channel.
	NoteOff(channel, key int)

	// SetPreset selects the channel's active preset by program number.
	// drums marks the preset for percussion bank resolution.
	SetPreset(channel, preset int, drums bool)

	// SetPitchWheel sets the channel pitch wheel to a 14-bit value
	// in [0, 16383]; 8192 is center.
	SetPitchWheel(channel, value int)

	// ControlChange forwards a MIDI controller message to a channel.
	ControlChange(channel, controller, value int)

	// SetVolume sets the engine master volume, normalized to [0, 1].
	SetVolume(v float32)

	// Render writes frames of interleaved stereo float32 samples into buf.
	// buf must hold at least 2*frames samples.
	Render(buf []float32, frames int)

	// Close releases the engine instance and its sound-bank data.
	Close() error
}

// SynthLoader parses a sound bank from r and returns an engine bound to it.
type SynthLoader func(r io.Reader) (Synthesizer, error)
