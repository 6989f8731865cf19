package store

import (
	"bytes"
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/arloliu/voxsec/section"
)

// MemoryStore keeps records in a map.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[section.Pos][]byte
	closed  bool
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[section.Pos][]byte)}
}

func (m *MemoryStore) Put(ctx context.Context, pos section.Pos, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.records[pos] = bytes.Clone(blob)

	return nil
}

func (m *MemoryStore) Get(ctx context.Context, pos section.Pos) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	blob, ok := m.records[pos]
	if !ok {
		return nil, ErrNotFound
	}

	return bytes.Clone(blob), nil
}

// Delete removes the record at pos. Deleting a missing record is not an error.
func (m *MemoryStore) Delete(ctx context.Context, pos section.Pos) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.records, pos)

	return nil
}

func (m *MemoryStore) Positions(ctx context.Context) ([]section.Pos, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}

	return slices.SortedFunc(maps.Keys(m.records), comparePos), nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.records = nil

	return nil
}
