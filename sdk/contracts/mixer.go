package contracts

// RenderFunc is a pull callback registered with a Mixer. The mixer invokes
// it at its own cadence, potentially from a dedicated audio goroutine, to
// fill buf with frames of interleaved stereo float32 samples. volume is the
// mixer's stream gain; whether the callback applies it is part of the
// callback's contract with the mixer backend.
type RenderFunc func(buf []float32, frames int, volume float32)

// Mixer is the audio output boundary. Drivers register render streams with
// it and never schedule rendering themselves.
type Mixer interface {
	// PlayStream registers a render callback as a live stream and returns a
	// function that removes it again.
	PlayStream(render RenderFunc) (stop func(), err error)

	// SetActive toggles the mixer's active-output state. While inactive the
	// mixer emits silence without pulling any stream.
	SetActive(active bool)

	// Close stops playback and drops all streams.
	Close() error
}
