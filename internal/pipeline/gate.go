package pipeline

import "sync"

// Gate admits at most one pipeline run at a time. Overlapping submissions are
// rejected up front instead of racing stale in-flight responses.
type Gate struct {
	mu   sync.Mutex
	busy bool
}

// NewGate returns an open gate.
func NewGate() *Gate {
	return &Gate{}
}

// TryAcquire claims the gate, returning false if a run is already in flight.
func (g *Gate) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy {
		return false
	}
	g.busy = true
	return true
}

// Release reopens the gate.
func (g *Gate) Release() {
	g.mu.Lock()
	g.busy = false
	g.mu.Unlock()
}
