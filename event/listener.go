package event

import (
	"context"
	"sync"

	"github.com/arloliu/voxsec/errs"
)

// Listener receives events from a Bus.
type Listener struct {
	bus *Bus
	id  uint64

	mu       sync.Mutex
	handlers map[Kind]Handler
	queue    []Event
	closed   bool

	notify chan struct{} // capacity 1, signalled on enqueue and close
}

func newListener(b *Bus) *Listener {
	return &Listener{
		bus:      b,
		handlers: make(map[Kind]Handler),
		notify:   make(chan struct{}, 1),
	}
}

// Handle registers fn for kind, replacing any previous handler.
func (l *Listener) Handle(kind Kind, fn Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers[kind] = fn
}

// HandleName registers name on the bus and fn for its kind.
//
// Returns the error of Bus.Register; fn is not registered in that case.
func (l *Listener) HandleName(name string, fn Handler) error {
	kind, err := l.bus.Register(name)
	if err != nil {
		return err
	}
	l.Handle(kind, fn)

	return nil
}

func (l *Listener) handler(kind Kind) (Handler, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	h, ok := l.handlers[kind]

	return h, ok
}

func (l *Listener) enqueue(e Event) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	if _, ok := l.handlers[e.Kind]; !ok {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, e)
	l.mu.Unlock()

	l.wake()
}

func (l *Listener) wake() {
	select {
	case l.notify <- struct{}{}:
	default:
	}
}

// HandleEvent runs the handler of the oldest queued event. It reports whether an
// event was taken from the queue.
func (l *Listener) HandleEvent() bool {
	l.mu.Lock()
	if len(l.queue) == 0 {
		l.mu.Unlock()
		return false
	}
	e := l.queue[0]
	l.queue[0] = Event{}
	l.queue = l.queue[1:]
	h := l.handlers[e.Kind]
	l.mu.Unlock()

	if h != nil {
		h(e)
	}

	return true
}

// HandleAll handles queued events until the queue is empty and returns how many
// were handled.
func (l *Listener) HandleAll() int {
	n := 0
	for l.HandleEvent() {
		n++
	}

	return n
}

// Pending reports whether events are queued.
func (l *Listener) Pending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.queue) > 0
}

// Wait blocks until an event is queued, the listener is closed, or ctx is done.
//
// Returns:
//   - nil: At least one event is queued
//   - errs.ErrBusClosed: The listener is closed and its queue is empty
//   - ctx.Err(): The context ended first
func (l *Listener) Wait(ctx context.Context) error {
	for {
		l.mu.Lock()
		pending, closed := len(l.queue) > 0, l.closed
		l.mu.Unlock()

		switch {
		case pending:
			return nil
		case closed:
			return errs.ErrBusClosed
		}

		select {
		case <-l.notify:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close unregisters the listener from its bus. Events already queued can still be
// handled.
func (l *Listener) Close() {
	if l.id != 0 {
		l.bus.unregister(l.id)
	}
	l.markClosed()
}

func (l *Listener) markClosed() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	l.wake()
}
