// Package event is a small publish/subscribe bus for cross-component notifications.
//
// Listeners register one handler per event kind. Publishers either queue an event for
// every interested listener, to be handled later on the listener owner's goroutine
// (Publish), or run the handlers right away on the publisher's goroutine (Call).
//
// A Bus is an explicit value with a Close method; there is no package-level registry.
//
//	bus := event.NewBus()
//	defer bus.Close()
//
//	l := bus.NewListener()
//	l.HandleName("section.decoded", func(e event.Event) {
//	    d, _ := event.Payload[worker.Decoded](e)
//	    fmt.Println(d.Pos)
//	})
//
//	_ = bus.Publish(event.KindOf("section.decoded"), worker.Decoded{...})
//	l.HandleAll()
package event

import (
	"fmt"

	"github.com/arloliu/voxsec/errs"
	"github.com/arloliu/voxsec/internal/hash"
)

// Kind identifies an event type.
type Kind uint64

// KindOf derives a Kind from an event name.
func KindOf(name string) Kind {
	return Kind(hash.ID(name))
}

// Event is one published notification carrying an arbitrary payload.
type Event struct {
	Kind    Kind
	payload any
}

// New creates an event.
func New(kind Kind, payload any) Event {
	return Event{Kind: kind, payload: payload}
}

// Payload returns the untyped payload.
func (e Event) Payload() any {
	return e.payload
}

// Payload returns the payload of e as T.
//
// Returns errs.ErrPayloadType if the payload has a different type.
func Payload[T any](e Event) (T, error) {
	v, ok := e.payload.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: got %T, want %T", errs.ErrPayloadType, e.payload, zero)
	}

	return v, nil
}

// Handler processes one event.
type Handler func(Event)
