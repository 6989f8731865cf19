package collision

import (
	"fmt"
	"slices"

	"github.com/arloliu/voxsec/errs"
)

// Tracker maps 64-bit name hashes back to the names that produced them and detects
// two distinct names sharing a hash.
//
// Tracker is not safe for concurrent use.
type Tracker struct {
	names map[uint64]string // Hash → name mapping for collision detection
	order []string          // Names in the order they were first tracked
}

// NewTracker creates a new collision tracker.
func NewTracker() *Tracker {
	return &Tracker{
		names: make(map[uint64]string),
		order: make([]string, 0),
	}
}

// Track records that name hashes to id.
//
// Tracking the same name again is a no-op.
// Returns errs.ErrInvalidEventName for an empty name and errs.ErrHashCollision if a
// different name was already tracked under id.
func (t *Tracker) Track(name string, id uint64) error {
	if name == "" {
		return errs.ErrInvalidEventName
	}

	if existing, ok := t.names[id]; ok {
		if existing == name {
			return nil
		}

		return fmt.Errorf("%w: %q and %q both hash to %016x", errs.ErrHashCollision, existing, name, id)
	}

	t.names[id] = name
	t.order = append(t.order, name)

	return nil
}

// Name returns the name tracked under id.
func (t *Tracker) Name(id uint64) (string, bool) {
	name, ok := t.names[id]
	return name, ok
}

// Names returns the tracked names in the order they were first tracked.
func (t *Tracker) Names() []string {
	return slices.Clone(t.order)
}

// Count returns the number of tracked names.
func (t *Tracker) Count() int {
	return len(t.order)
}

// Reset clears all tracked names.
func (t *Tracker) Reset() {
	clear(t.names)
	t.order = t.order[:0]
}
