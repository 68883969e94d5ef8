package mixer

import (
	"fmt"
	"io"

	"github.com/ebitengine/oto/v3"
)

// otoOutput plays mixed frames through the platform audio device.
type otoOutput struct {
	player *oto.Player
}

// NewPlaybackOutput returns an Output backed by the oto audio context.
func NewPlaybackOutput() Output {
	return &otoOutput{}
}

func (o *otoOutput) Start(sampleRate int, stream io.Reader) error {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return fmt.Errorf("mixer: open audio context: %w", err)
	}
	<-ready

	o.player = ctx.NewPlayer(stream)
	o.player.Play()
	return nil
}

func (o *otoOutput) Close() error {
	if o.player == nil {
		return nil
	}
	err := o.player.Close()
	o.player = nil
	return err
}
