package softsynth

import "sync"

// guard serializes calls into the synth engine. Rendering runs on the
// mixer's audio goroutine while event dispatch runs on the host's control
// goroutine; the engine's voice tables are not reentrant, so both paths go
// through the same guard. Hosts that pull audio and dispatch from a single
// goroutine can select the no-op variant.
type guard interface {
	lock()
	unlock()
}

func newGuard(serialized bool) guard {
	if serialized {
		return &mutexGuard{}
	}
	return nopGuard{}
}

type mutexGuard struct {
	mu sync.Mutex
}

func (g *mutexGuard) lock()   { g.mu.Lock() }
func (g *mutexGuard) unlock() { g.mu.Unlock() }

type nopGuard struct{}

func (nopGuard) lock()   {}
func (nopGuard) unlock() {}
