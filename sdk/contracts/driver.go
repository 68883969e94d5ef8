package contracts

// MIDI channel message status nibbles.
const (
	StatusNoteOff         byte = 0x80
	StatusNoteOn          byte = 0x90
	StatusKeyPressure     byte = 0xA0
	StatusControlChange   byte = 0xB0
	StatusProgramChange   byte = 0xC0
	StatusChannelPressure byte = 0xD0
	StatusPitchBend       byte = 0xE0
	StatusSysex           byte = 0xF0
)

// Event is one raw MIDI message: a status byte followed by up to two 7-bit
// data bytes, or a full sysex payload. Events are consumed once and never
// retained by a driver.
type Event struct {
	Data      []byte // Raw message bytes, status first.
	Timestamp uint64 // Time the event occurred, in nanoseconds.
}

// Status returns the status byte, or 0 for an empty event.
func (e Event) Status() byte {
	if len(e.Data) == 0 {
		return 0
	}
	return e.Data[0]
}

// Channel returns the channel index (0-15) from the status low nibble.
func (e Event) Channel() uint8 { return e.Status() & 0x0F }

// Kind returns the message kind: the status high nibble.
func (e Event) Kind() byte { return e.Status() & 0xF0 }

// Driver is the contract every MIDI driver in the family implements.
// Input-only and output-only drivers are both expressed through it; the
// unsupported direction reports empty enumerations and rejects selection.
type Driver interface {
	// Name identifies the driver within the registry.
	Name() string

	// AvailableInputs lists selectable input device names. An output-only
	// driver returns an empty list and no error.
	AvailableInputs() ([]string, error)

	// AvailableOutputs lists selectable output device names, or the accepted
	// aliases when the underlying output is not a real device.
	AvailableOutputs() ([]string, error)

	// SetInput selects an input device by name.
	SetInput(name string) error

	// SetOutput selects an output device by name.
	SetOutput(name string) error

	// Read reports the next incoming event, if any. A driver that never
	// originates events returns (false, nil) unconditionally.
	Read(ev *Event) (bool, error)

	// Write dispatches one outgoing event. Malformed events are rejected
	// with an error; recognized-but-unsupported content is accepted and
	// ignored.
	Write(ev Event) error

	// Flush drains any queued outgoing data.
	Flush() error

	// Close releases the driver's resources. Safe to call more than once.
	Close() error
}
