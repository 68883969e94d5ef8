package driver

import (
	"github.com/fluxaudio/midisynth/internal/logger"
	"github.com/fluxaudio/midisynth/internal/mixer"
	"github.com/fluxaudio/midisynth/internal/synth"
	"github.com/fluxaudio/midisynth/sdk/contracts"
)

// defaultSampleRate matches the rate the host audio layer runs at when none
// is supplied.
const defaultSampleRate = 44100

// applyDefaultOptions fills Options fields that were not explicitly
// provided: zap logging, the meltysynth loader, a playback-backed mixer and
// the default sample rate.
func applyDefaultOptions(opts ...contracts.Option) (contracts.Options, error) {
	options := &contracts.Options{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.New()
	}
	if options.SampleRate == 0 {
		options.SampleRate = defaultSampleRate
	}
	if options.SynthLoader == nil {
		options.SynthLoader = synth.Load
	}
	if options.Mixer == nil {
		options.Mixer = mixer.New(options.SampleRate, mixer.NewPlaybackOutput())
	}

	options.Logger.SetLevel(options.LogLevel)
	return *options, nil
}
