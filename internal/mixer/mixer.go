// Package mixer implements the pull-based audio mixer drivers register
// their render streams with. Registered streams are summed into interleaved
// stereo float32 frames and handed to an Output backend that owns playback.
package mixer

import (
	"encoding/binary"
	"io"
	"math"
	"sync"

	"github.com/fluxaudio/midisynth/sdk/contracts"
)

const (
	channels   = 2
	frameBytes = channels * 4 // float32 samples
)

// Output is a playback backend. Start begins pulling interleaved stereo
// float32 little-endian frames from stream at the given sample rate.
type Output interface {
	Start(sampleRate int, stream io.Reader) error
	Close() error
}

type stream struct {
	render contracts.RenderFunc
	volume float32
}

// Mixer sums registered render streams. It implements io.Reader so an
// Output backend can pull mixed frames at its own cadence.
type Mixer struct {
	mu      sync.Mutex
	out     Output
	rate    int
	started bool
	active  bool
	nextID  uint64
	streams map[uint64]*stream
	scratch []float32
	mix     []float32
}

// New creates a mixer feeding out at the given sample rate. Playback starts
// lazily when the first stream is registered.
func New(sampleRate int, out Output) *Mixer {
	return &Mixer{
		out:     out,
		rate:    sampleRate,
		streams: make(map[uint64]*stream),
	}
}

// PlayStream registers render as a live stream with unit gain and returns a
// function that removes it. The first stream starts the output backend.
func (m *Mixer) PlayStream(render contracts.RenderFunc) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		if err := m.out.Start(m.rate, m); err != nil {
			return nil, err
		}
		m.started = true
	}

	id := m.nextID
	m.nextID++
	m.streams[id] = &stream{render: render, volume: 1}

	return func() {
		m.mu.Lock()
		delete(m.streams, id)
		m.mu.Unlock()
	}, nil
}

// SetActive toggles whether streams are pulled. While inactive the mixer
// emits silence.
func (m *Mixer) SetActive(active bool) {
	m.mu.Lock()
	m.active = active
	m.mu.Unlock()
}

// Read fills p with mixed little-endian float32 frames. It never blocks and
// always satisfies the request, so playback backends see a gapless stream.
func (m *Mixer) Read(p []byte) (int, error) {
	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, nil
	}
	samples := frames * channels

	m.mu.Lock()
	if cap(m.mix) < samples {
		m.mix = make([]float32, samples)
		m.scratch = make([]float32, samples)
	}
	mix := m.mix[:samples]
	for i := range mix {
		mix[i] = 0
	}
	if m.active {
		for _, s := range m.streams {
			scratch := m.scratch[:samples]
			for i := range scratch {
				scratch[i] = 0
			}
			// The stream gain is the callback's to apply; see the
			// RenderFunc contract.
			s.render(scratch, frames, s.volume)
			for i := range scratch {
				mix[i] += scratch[i]
			}
		}
	}
	m.mu.Unlock()

	for i, v := range mix {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(v))
	}
	return samples * 4, nil
}

// Close stops the output backend and drops all streams.
func (m *Mixer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.streams = make(map[uint64]*stream)
	m.active = false
	if !m.started {
		return nil
	}
	m.started = false
	return m.out.Close()
}
