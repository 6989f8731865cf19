package event

import (
	"sync"

	"github.com/arloliu/voxsec/errs"
	"github.com/arloliu/voxsec/internal/collision"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Bus routes events to registered listeners in registration order.
type Bus struct {
	mu        sync.RWMutex
	listeners *orderedmap.OrderedMap[uint64, *Listener]
	nextID    uint64
	closed    bool

	names *collision.Tracker
}

func NewBus() *Bus {
	return &Bus{
		listeners: orderedmap.New[uint64, *Listener](),
		names:     collision.NewTracker(),
	}
}

// Register returns KindOf(name) and remembers the name for Name.
//
// Returns errs.ErrInvalidEventName for an empty name and errs.ErrHashCollision when
// another registered name maps to the same kind.
func (b *Bus) Register(name string) (Kind, error) {
	kind := KindOf(name)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.names.Track(name, uint64(kind)); err != nil {
		return 0, err
	}

	return kind, nil
}

// Name returns the registered name of kind.
func (b *Bus) Name(kind Kind) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.names.Name(uint64(kind))
}

// Names lists the registered event names in registration order.
func (b *Bus) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.names.Names()
}

// NewListener registers a new listener. A listener created on a closed bus is
// already closed.
func (b *Bus) NewListener() *Listener {
	l := newListener(b)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		l.markClosed()
		return l
	}
	b.nextID++
	l.id = b.nextID
	b.listeners.Set(l.id, l)

	return l
}

func (b *Bus) unregister(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners.Delete(id)
}

// snapshot returns the registered listeners so handlers run without the bus lock.
func (b *Bus) snapshot() ([]*Listener, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, errs.ErrBusClosed
	}

	out := make([]*Listener, 0, b.listeners.Len())
	for pair := b.listeners.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}

	return out, nil
}

// Publish queues the event on every listener with a handler for kind. Handlers run
// when each listener calls HandleEvent or HandleAll.
func (b *Bus) Publish(kind Kind, payload any) error {
	listeners, err := b.snapshot()
	if err != nil {
		return err
	}

	e := New(kind, payload)
	for _, l := range listeners {
		l.enqueue(e)
	}

	return nil
}

// Call runs the handler of every listener registered for kind synchronously on the
// calling goroutine.
func (b *Bus) Call(kind Kind, payload any) error {
	listeners, err := b.snapshot()
	if err != nil {
		return err
	}

	e := New(kind, payload)
	for _, l := range listeners {
		if h, ok := l.handler(kind); ok {
			h(e)
		}
	}

	return nil
}

// Close unregisters and closes every listener. Events already queued stay available
// to HandleEvent and HandleAll. Later Publish and Call return errs.ErrBusClosed.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	var listeners []*Listener
	for pair := b.listeners.Oldest(); pair != nil; pair = pair.Next() {
		listeners = append(listeners, pair.Value)
	}
	b.listeners = orderedmap.New[uint64, *Listener]()
	b.mu.Unlock()

	for _, l := range listeners {
		l.markClosed()
	}
}
