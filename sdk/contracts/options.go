package contracts

// Options defines the configuration for a driver opened through the
// registry. Zero-valued fields are filled with defaults before the driver
// initializer runs.
type Options struct {
	Logger   Logger   // Logger for lifecycle events and errors.
	LogLevel LogLevel // Severity threshold for the logger.

	Input  string // Selected input device name, if any.
	Output string // Selected output device name or alias.

	SystemDir  string // Directory holding system resources (the sound bank).
	SampleRate int    // Host audio sample rate in Hz.

	Mixer       Mixer       // Audio mixer the driver registers its stream with.
	SynthLoader SynthLoader // Sound-bank loader producing the synth engine.

	// DisableRenderLock replaces the mutex guarding synth-engine calls with
	// a no-op guard. Only safe when the host pulls audio and dispatches
	// events from the same goroutine.
	DisableRenderLock bool
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithLogger sets the logger for the driver.
func WithLogger(l Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithLogLevel sets the logging severity threshold.
func WithLogLevel(level LogLevel) Option {
	return func(o *Options) { o.LogLevel = level }
}

// WithInput preselects an input device by name.
func WithInput(name string) Option {
	return func(o *Options) { o.Input = name }
}

// WithOutput preselects an output device by name. The softsynth driver
// requires a non-empty output target.
func WithOutput(name string) Option {
	return func(o *Options) { o.Output = name }
}

// WithSystemDir sets the directory the sound-bank file is resolved against.
func WithSystemDir(dir string) Option {
	return func(o *Options) { o.SystemDir = dir }
}

// WithSampleRate sets the host audio sample rate.
func WithSampleRate(rate int) Option {
	return func(o *Options) { o.SampleRate = rate }
}

// WithMixer sets the audio mixer the driver renders into.
func WithMixer(m Mixer) Option {
	return func(o *Options) { o.Mixer = m }
}

// WithSynthLoader sets the sound-bank loader used by the softsynth driver.
func WithSynthLoader(l SynthLoader) Option {
	return func(o *Options) { o.SynthLoader = l }
}

// WithoutRenderLock selects the no-op synchronization guard.
func WithoutRenderLock() Option {
	return func(o *Options) { o.DisableRenderLock = true }
}
