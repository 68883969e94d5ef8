package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fluxaudio/midisynth/sdk/contracts"
	"github.com/fluxaudio/midisynth/sdk/driver"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// Feeds a hardware MIDI input port into the softsynth driver: whatever you
// play on the keyboard is rendered through GM.SF2.
func main() {
	systemDir := flag.String("system-dir", ".", "directory containing GM.SF2")
	portName := flag.String("port", "", "MIDI input port name (first port if empty)")
	rate := flag.Int("rate", 44100, "audio sample rate")
	flag.Parse()

	defer midi.CloseDriver()

	drv, err := driver.Open("softsynth",
		contracts.WithOutput("gm"),
		contracts.WithSystemDir(*systemDir),
		contracts.WithSampleRate(*rate),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open softsynth:", err)
		os.Exit(1)
	}
	defer drv.Close()

	in, err := midi.FindInPort(*portName)
	if err != nil {
		ports := midi.GetInPorts()
		if len(ports) == 0 {
			fmt.Fprintln(os.Stderr, "no MIDI input ports available")
			os.Exit(1)
		}
		in = ports[0]
	}

	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		ev := contracts.Event{
			Data:      msg.Bytes(),
			Timestamp: uint64(time.Now().UnixNano()),
		}
		if err := drv.Write(ev); err != nil {
			fmt.Fprintln(os.Stderr, "dropped event:", err)
		}
	}, midi.UseSysEx())
	if err != nil {
		fmt.Fprintln(os.Stderr, "listen:", err)
		os.Exit(1)
	}
	defer stop()

	fmt.Printf("playing %s through the softsynth, Ctrl+C to exit\n", in.String())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
}
