package softsynth

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fluxaudio/midisynth/sdk/contracts"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any) {}
func (nopLogger) Warn(string, ...any) {}
func (nopLogger) Error(string, ...any) {}
func (nopLogger) SetLevel(contracts.LogLevel) {}

type synthCall struct {
	op      string
	channel int
	a, b    int
	value   float32
	drums   bool
	frames  int
}

type fakeSynth struct {
	calls      []synthCall
	rate       int
	closeCount int
	formatErr  error
}

func (f *fakeSynth) SetOutputFormat(sampleRate int) error {
	f.rate = sampleRate
	return f.formatErr
}

func (f *fakeSynth) NoteOn(channel, key int, velocity float32) {
	f.calls = append(f.calls, synthCall{op: "noteOn", channel: channel, a: key, value: velocity})
}

func (f *fakeSynth) NoteOff(channel, key int) {
	f.calls = append(f.calls, synthCall{op: "noteOff", channel: channel, a: key})
}

func (f *fakeSynth) SetPreset(channel, preset int, drums bool) {
	f.calls = append(f.calls, synthCall{op: "preset", channel: channel, a: preset, drums: drums})
}

func (f *fakeSynth) SetPitchWheel(channel, value int) {
	f.calls = append(f.calls, synthCall{op: "pitch", channel: channel, a: value})
}

func (f *fakeSynth) ControlChange(channel, controller, value int) {
	f.calls = append(f.calls, synthCall{op: "control", channel: channel, a: controller, b: value})
}

func (f *fakeSynth) SetVolume(v float32) {
	f.calls = append(f.calls, synthCall{op: "volume", value: v})
}

func (f *fakeSynth) Render(buf []float32, frames int) {
	f.calls = append(f.calls, synthCall{op: "render", frames: frames})
}

func (f *fakeSynth) Close() error {
	f.closeCount++
	return nil
}

type fakeMixer struct {
	render    contracts.RenderFunc
	active    bool
	stopCount int
	playErr   error
}

func (m *fakeMixer) PlayStream(render contracts.RenderFunc) (func(), error) {
	if m.playErr != nil {
		return nil, m.playErr
	}
	m.render = render
	return func() { m.stopCount++ }, nil
}

func (m *fakeMixer) SetActive(active bool) { m.active = active }
func (m *fakeMixer) Close() error          { return nil }

// newTestDriver builds a driver around the fakes, with a throwaway GM.SF2
// so the sound-bank resolution path runs for real.
func newTestDriver(t *testing.T) (contracts.Driver, *fakeSynth, *fakeMixer) {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "GM.SF2"), []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}

	engine := &fakeSynth{}
	mix := &fakeMixer{}
	d, err := New(&contracts.Options{
		Logger:      nopLogger{},
		Output:      "gm",
		SystemDir:   dir,
		SampleRate:  48000,
		Mixer:       mix,
		SynthLoader: func(r io.Reader) (contracts.Synthesizer, error) { return engine, nil },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d, engine, mix
}

func event(data ...byte) contracts.Event {
	return contracts.Event{Data: data}
}

func lastCall(t *testing.T, engine *fakeSynth) synthCall {
	t.Helper()
	if len(engine.calls) == 0 {
		t.Fatal("no synth-engine call recorded")
	}
	return engine.calls[len(engine.calls)-1]
}

func TestNew_RequiresOutput(t *testing.T) {
	_, err := New(&contracts.Options{Logger: nopLogger{}, SystemDir: t.TempDir()})
	if !errors.Is(err, ErrOutputUnspecified) {
		t.Fatalf("expected ErrOutputUnspecified, got %v", err)
	}
}

func TestNew_MissingSoundBank(t *testing.T) {
	_, err := New(&contracts.Options{
		Logger:    nopLogger{},
		Output:    "gm",
		SystemDir: t.TempDir(),
		Mixer:     &fakeMixer{},
		SynthLoader: func(r io.Reader) (contracts.Synthesizer, error) {
			t.Fatal("loader must not run when the sound bank is missing")
			return nil, nil
		},
	})
	if err == nil {
		t.Fatal("expected error for missing GM.SF2")
	}
}

func TestNew_ConfiguresEngineAndMixer(t *testing.T) {
	_, engine, mix := newTestDriver(t)
	if engine.rate != 48000 {
		t.Fatalf("sample rate = %d, want 48000", engine.rate)
	}
	if !mix.active {
		t.Fatal("mixer not activated")
	}
	if mix.render == nil {
		t.Fatal("render stream not registered")
	}
}

func TestWrite_RejectsShortEvents(t *testing.T) {
	d, engine, _ := newTestDriver(t)

	for _, ev := range []contracts.Event{event(), event(0x90)} {
		if err := d.Write(ev); !errors.Is(err, ErrTruncatedEvent) {
			t.Fatalf("len %d: expected ErrTruncatedEvent, got %v", len(ev.Data), err)
		}
	}
	if len(engine.calls) != 0 {
		t.Fatalf("rejected events reached the engine: %#v", engine.calls)
	}
}

func TestWrite_NoteOnVelocity(t *testing.T) {
	d, engine, _ := newTestDriver(t)

	if err := d.Write(event(0x90, 60, 127)); err != nil {
		t.Fatal(err)
	}
	c := lastCall(t, engine)
	if c.op != "noteOn" || c.channel != 0 || c.a != 60 || c.value != 1.0 {
		t.Fatalf("noteOn call = %+v", c)
	}

	if err := d.Write(event(0x93, 72, 0)); err != nil {
		t.Fatal(err)
	}
	c = lastCall(t, engine)
	if c.op != "noteOn" || c.channel != 3 || c.a != 72 || c.value != 0.0 {
		t.Fatalf("noteOn call = %+v", c)
	}
}

func TestWrite_NoteOff(t *testing.T) {
	d, engine, _ := newTestDriver(t)

	if err := d.Write(event(0x85, 64, 40)); err != nil {
		t.Fatal(err)
	}
	c := lastCall(t, engine)
	if c.op != "noteOff" || c.channel != 5 || c.a != 64 {
		t.Fatalf("noteOff call = %+v", c)
	}
}

func TestWrite_PitchBendMax(t *testing.T) {
	d, engine, _ := newTestDriver(t)

	if err := d.Write(event(0xE2, 0x7F, 0x7F)); err != nil {
		t.Fatal(err)
	}
	c := lastCall(t, engine)
	if c.op != "pitch" || c.channel != 2 || c.a != 16383 {
		t.Fatalf("pitch call = %+v", c)
	}
}

func TestWrite_PitchBendTwoBytes(t *testing.T) {
	d, engine, _ := newTestDriver(t)

	// Missing data2 packs as 0 in the high bits.
	if err := d.Write(event(0xE0, 0x12)); err != nil {
		t.Fatal(err)
	}
	c := lastCall(t, engine)
	if c.op != "pitch" || c.a != 0x12 {
		t.Fatalf("pitch call = %+v", c)
	}
}

func TestWrite_ProgramChangeDrumFlag(t *testing.T) {
	d, engine, _ := newTestDriver(t)

	if err := d.Write(event(0xC9, 25, 0)); err != nil {
		t.Fatal(err)
	}
	c := lastCall(t, engine)
	if c.op != "preset" || c.channel != 9 || c.a != 25 || !c.drums {
		t.Fatalf("percussion channel preset call = %+v", c)
	}

	if err := d.Write(event(0xC0, 25, 0)); err != nil {
		t.Fatal(err)
	}
	c = lastCall(t, engine)
	if c.op != "preset" || c.channel != 0 || c.drums {
		t.Fatalf("melodic channel preset call = %+v", c)
	}
}

func TestWrite_ControlChangeUnchanged(t *testing.T) {
	d, engine, _ := newTestDriver(t)

	if err := d.Write(event(0xB1, 7, 100)); err != nil {
		t.Fatal(err)
	}
	c := lastCall(t, engine)
	if c.op != "control" || c.channel != 1 || c.a != 7 || c.b != 100 {
		t.Fatalf("control call = %+v", c)
	}
}

func TestWrite_MasterVolumeSysex(t *testing.T) {
	d, engine, _ := newTestDriver(t)

	if err := d.Write(event(0xF0, 0x7F, 0x7F, 0x04, 0x01, 0x7F, 0x7F, 0xF7)); err != nil {
		t.Fatal(err)
	}
	c := lastCall(t, engine)
	if c.op != "volume" || c.value != 1.0 {
		t.Fatalf("volume call = %+v", c)
	}

	if err := d.Write(event(0xF0, 0x7F, 0x7F, 0x04, 0x01, 0x00, 0x40, 0xF7)); err != nil {
		t.Fatal(err)
	}
	c = lastCall(t, engine)
	want := float32(0x40<<7) / 16383.0
	if c.op != "volume" || c.value != want {
		t.Fatalf("volume call = %+v, want value %v", c, want)
	}
}

func TestWrite_SysexIgnored(t *testing.T) {
	d, engine, _ := newTestDriver(t)

	// Wrong signature.
	if err := d.Write(event(0xF0, 0x7E, 0x7F, 0x04, 0x01, 0x7F, 0x7F, 0xF7)); err != nil {
		t.Fatal(err)
	}
	// Right signature, wrong length.
	if err := d.Write(event(0xF0, 0x7F, 0x7F, 0x04, 0x01, 0x7F, 0xF7)); err != nil {
		t.Fatal(err)
	}
	if len(engine.calls) != 0 {
		t.Fatalf("unrecognized sysex reached the engine: %#v", engine.calls)
	}
}

func TestWrite_UnknownStatusAccepted(t *testing.T) {
	d, engine, _ := newTestDriver(t)

	// Key pressure is not dispatched but still accepted.
	if err := d.Write(event(0xA0, 60, 50)); err != nil {
		t.Fatalf("unknown status nibble rejected: %v", err)
	}
	if len(engine.calls) != 0 {
		t.Fatalf("no-op event reached the engine: %#v", engine.calls)
	}
}

func TestRender_PullsEngine(t *testing.T) {
	_, engine, mix := newTestDriver(t)

	buf := make([]float32, 128)
	mix.render(buf, 64, 0.5)
	c := lastCall(t, engine)
	if c.op != "render" || c.frames != 64 {
		t.Fatalf("render call = %+v", c)
	}
}

func TestClose_Idempotent(t *testing.T) {
	d, engine, mix := newTestDriver(t)

	if err := d.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if engine.closeCount != 1 {
		t.Fatalf("engine closed %d times", engine.closeCount)
	}
	if mix.stopCount != 1 {
		t.Fatalf("stream stopped %d times", mix.stopCount)
	}
}

func TestWrite_AfterClose(t *testing.T) {
	d, _, mix := newTestDriver(t)

	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if err := d.Write(event(0x90, 60, 100)); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	// Rendering after close must be a silent no-op.
	mix.render(make([]float32, 16), 8, 1)
}

func TestEnumerationsAndSelection(t *testing.T) {
	d, _, _ := newTestDriver(t)

	inputs, err := d.AvailableInputs()
	if err != nil || len(inputs) != 0 {
		t.Fatalf("AvailableInputs = %v, %v", inputs, err)
	}

	outputs, err := d.AvailableOutputs()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"SF2", "sf2", "GM", "gm"} {
		found := false
		for _, o := range outputs {
			if o == want {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("alias %q missing from outputs %v", want, outputs)
		}
	}

	if err := d.SetInput("anything"); !errors.Is(err, ErrInputUnsupported) {
		t.Fatalf("SetInput: %v", err)
	}
	if err := d.SetOutput("whatever works"); err != nil {
		t.Fatalf("SetOutput: %v", err)
	}

	var ev contracts.Event
	if ok, err := d.Read(&ev); ok || err != nil {
		t.Fatalf("Read = %v, %v", ok, err)
	}
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}

func TestNewGuard(t *testing.T) {
	if _, ok := newGuard(true).(*mutexGuard); !ok {
		t.Fatal("serialized guard is not the mutex variant")
	}
	if _, ok := newGuard(false).(nopGuard); !ok {
		t.Fatal("unserialized guard is not the no-op variant")
	}
}
