package section

import "sync"

// readyGate parks readers until a section reaches a terminal decode outcome.
//
// The condition variable is bound to the section mutex for the section's whole lifetime.
// Both the predicate and the outcome are only touched with that mutex held.
type readyGate struct {
	cond  *sync.Cond
	ready bool
	err   error
}

func (g *readyGate) init(mu *sync.Mutex) {
	g.cond = sync.NewCond(mu)
}

func (g *readyGate) done() bool {
	return g.ready || g.err != nil
}

// awaitLocked blocks until an outcome is recorded. The caller must hold the mutex.
// waited reports whether the caller was actually parked.
func (g *readyGate) awaitLocked() (waited bool, err error) {
	for !g.done() {
		waited = true
		g.cond.Wait()
	}

	return waited, g.err
}

// signalLocked records the outcome and wakes every parked reader. Only the first outcome
// is kept. The caller must hold the mutex.
func (g *readyGate) signalLocked(err error) {
	if g.done() {
		return
	}

	if err != nil {
		g.err = err
	} else {
		g.ready = true
	}
	g.cond.Broadcast()
}
