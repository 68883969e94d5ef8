package mixer

import (
	"io"
	"sync"
	"time"
)

const writerChunk = 25 * time.Millisecond

// writerOutput pulls mixed frames on a wall-clock cadence and writes them to
// an io.Writer. Used for headless operation and tests.
type writerOutput struct {
	w    io.Writer
	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// NewWriterOutput returns an Output that streams mixed frames into w in
// 25 ms chunks.
func NewWriterOutput(w io.Writer) Output {
	return &writerOutput{w: w, done: make(chan struct{})}
}

func (o *writerOutput) Start(sampleRate int, stream io.Reader) error {
	frames := sampleRate * int(writerChunk) / int(time.Second)
	buf := make([]byte, frames*frameBytes)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(writerChunk)
		defer ticker.Stop()
		for {
			select {
			case <-o.done:
				return
			case <-ticker.C:
				n, err := stream.Read(buf)
				if err != nil {
					return
				}
				if n > 0 {
					if _, err := o.w.Write(buf[:n]); err != nil {
						return
					}
				}
			}
		}
	}()
	return nil
}

func (o *writerOutput) Close() error {
	o.once.Do(func() { close(o.done) })
	o.wg.Wait()
	return nil
}
