package contracts

// LogLevel represents the severity threshold for logging.
type LogLevel int

const (
	// DebugLevel enables verbose per-event diagnostics.
	DebugLevel LogLevel = iota - 1
	// InfoLevel reports lifecycle progress. This is the default.
	InfoLevel
	// WarnLevel reports dropped or malformed data worth monitoring.
	WarnLevel
	// ErrorLevel reports failures that need attention.
	ErrorLevel
)

// Logger records structured messages with alternating key/value pairs,
// e.g. log.Info("device selected", "name", name, "id", id).
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)

	SetLevel(level LogLevel)
}
