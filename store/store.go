// Package store persists section archive records keyed by section position.
//
// Two implementations are provided: MemoryStore for tests and short-lived tools, and
// SQLiteStore, a single-file database built on modernc.org/sqlite that needs no cgo.
package store

import (
	"cmp"
	"context"
	"errors"
	"fmt"

	"github.com/arloliu/voxsec/archive"
	"github.com/arloliu/voxsec/section"
)

var (
	// ErrNotFound is returned by Get when no record is stored at a position.
	ErrNotFound = errors.New("section record not found")
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("store closed")
)

// Store is a key-value store of archive records keyed by section position.
//
// Implementations must be safe for concurrent use. Blobs passed to Put and returned by
// Get are never shared with the store's internal state.
type Store interface {
	Put(ctx context.Context, pos section.Pos, blob []byte) error
	Get(ctx context.Context, pos section.Pos) ([]byte, error)
	Delete(ctx context.Context, pos section.Pos) error
	// Positions lists every stored position ordered by X, then Y, then Z.
	Positions(ctx context.Context) ([]section.Pos, error)
	Close() error
}

// Save stores an archive record under the position found in its header.
func Save(ctx context.Context, st Store, record []byte) (section.Pos, error) {
	pos, err := archive.PeekPos(record)
	if err != nil {
		return section.Pos{}, err
	}
	if err := st.Put(ctx, pos, record); err != nil {
		return section.Pos{}, fmt.Errorf("store section %s: %w", pos, err)
	}

	return pos, nil
}

// Load reads, verifies and splits the record at pos and builds an undecoded section.
func Load(ctx context.Context, st Store, pos section.Pos, opts ...section.Option) (*section.Section, error) {
	blob, err := st.Get(ctx, pos)
	if err != nil {
		return nil, fmt.Errorf("load section %s: %w", pos, err)
	}

	dec, err := archive.NewDecoder(blob)
	if err != nil {
		return nil, fmt.Errorf("load section %s: %w", pos, err)
	}
	rec, err := dec.Decode()
	if err != nil {
		return nil, fmt.Errorf("load section %s: %w", pos, err)
	}
	if rec.Pos != pos {
		return nil, fmt.Errorf("load section %s: record is for %s", pos, rec.Pos)
	}

	return rec.Section(opts...)
}

func comparePos(a, b section.Pos) int {
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}

	return cmp.Compare(a.Z, b.Z)
}
