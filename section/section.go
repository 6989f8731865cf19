package section

import (
	"encoding/binary"
	"iter"
	"sync"
	"time"

	"github.com/arloliu/voxsec/encoding"
	"github.com/arloliu/voxsec/errs"
	"github.com/arloliu/voxsec/format"
	"github.com/arloliu/voxsec/internal/hash"
	"github.com/arloliu/voxsec/internal/options"
	"github.com/arloliu/voxsec/internal/pool"
	"github.com/go-kit/log/level"
)

// Section is one 16×16×16 cube of blocks.
//
// All methods are safe for concurrent use. A Section must not be copied by value; use Clone.
type Section struct {
	pos Pos
	cfg config

	mu       sync.Mutex
	gate     readyGate
	decoding bool
	raw      *rawBuffers  // non-nil while undecoded
	grid     *decodedGrid // non-nil once decoded
}

// New creates an undecoded section from deep copies of the input buffers.
//
// An input with no block buffer builds a placeholder that is already decoded as all air.
//
// Parameters:
//   - pos: Section coordinate in the world grid
//   - in: Raw buffers; the caller keeps ownership of its slices
//   - opts: Optional configuration (wire order, logger)
//
// Returns:
//   - *Section: The new section
//   - error: KindInvalidBitsPerBlock or KindInvalidLightLength on a contract violation
func New(pos Pos, in Input, opts ...Option) (*Section, error) {
	s, err := newSection(pos, opts)
	if err != nil {
		return nil, err
	}

	if len(in.Blocks) == 0 {
		grid, err := placeholderGrid(in)
		if err != nil {
			return nil, err
		}
		s.grid = grid
		s.gate.ready = true

		return s, nil
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}
	s.raw = newRawBuffers(in)

	return s, nil
}

// NewDecoded creates a section that is already decoded from 4096 blocks in flat index
// order. The section has zero block light and no sky light.
func NewDecoded(pos Pos, blocks []encoding.Block, opts ...Option) (*Section, error) {
	if len(blocks) != format.SectionBlockCount {
		return nil, errs.New(errs.KindStructuralMismatch, "got %d blocks, want %d", len(blocks), format.SectionBlockCount)
	}

	s, err := newSection(pos, opts)
	if err != nil {
		return nil, err
	}
	s.grid = &decodedGrid{
		blocks:     append([]encoding.Block(nil), blocks...),
		blockLight: make([]uint8, format.SectionBlockCount),
	}
	s.gate.ready = true

	return s, nil
}

func newSection(pos Pos, opts []Option) (*Section, error) {
	s := &Section{pos: pos, cfg: defaultConfig()}
	if err := options.Apply(&s.cfg, opts...); err != nil {
		return nil, err
	}
	s.gate.init(&s.mu)

	return s, nil
}

// Position returns the section coordinate.
func (s *Section) Position() Pos {
	return s.pos
}

// IsDecoded reports whether the decoded grid is available.
func (s *Section) IsDecoded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.grid != nil
}

// Err returns the error of a failed decode, or nil.
func (s *Section) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.gate.err
}

// Decode unpacks the raw buffers into the block grid and wakes every waiting reader.
//
// Decode is idempotent: once the section is decoded it returns nil without doing any work.
// If a decode already failed, the same error is returned. Concurrent callers wait for the
// decode in progress and share its outcome.
//
// The grid is computed without holding the section lock and published in one step, so a
// failure leaves the section undecoded with its raw buffers intact.
func (s *Section) Decode() error {
	s.mu.Lock()
	switch {
	case s.grid != nil:
		s.mu.Unlock()
		return nil
	case s.gate.err != nil:
		err := s.gate.err
		s.mu.Unlock()

		return err
	case s.decoding:
		_, err := s.gate.awaitLocked()
		s.mu.Unlock()

		return err
	}
	s.decoding = true
	raw := s.raw
	s.mu.Unlock()

	start := time.Now()
	grid, err := raw.decode(s.cfg.wire)

	s.mu.Lock()
	s.decoding = false
	if err == nil {
		s.grid = grid
		s.raw = nil
	}
	s.gate.signalLocked(err)
	s.mu.Unlock()

	if err != nil {
		level.Warn(s.cfg.logger).Log("msg", "section decode failed", "pos", s.pos, "err", err)
		return err
	}
	level.Debug(s.cfg.logger).Log("msg", "section decoded", "pos", s.pos, "duration", time.Since(start))

	return nil
}

// await blocks until the decode outcome is known and returns the grid.
func (s *Section) await() (*decodedGrid, error) {
	s.mu.Lock()
	waited, err := s.gate.awaitLocked()
	grid := s.grid
	s.mu.Unlock()

	if waited {
		level.Debug(s.cfg.logger).Log("msg", "waited for section decode", "pos", s.pos)
	}
	if err != nil {
		return nil, err
	}

	return grid, nil
}

// GetBlock returns the block at a local coordinate.
//
// It blocks until the section is decoded; after that it never blocks.
//
// Returns:
//   - encoding.Block: The block at y*256 + z*16 + x
//   - error: KindCoordinateOutOfRange if any coordinate is outside [0,16), or the decode error
func (s *Section) GetBlock(x, y, z int) (encoding.Block, error) {
	idx, err := flatIndex(x, y, z)
	if err != nil {
		return encoding.Block{}, err
	}

	grid, err := s.await()
	if err != nil {
		return encoding.Block{}, err
	}

	return grid.blocks[idx], nil
}

// Light returns the block light and sky light at a local coordinate, waiting for decode
// like GetBlock. hasSky is false when the section carries no sky light.
func (s *Section) Light(x, y, z int) (blockLight, skyLight uint8, hasSky bool, err error) {
	idx, err := flatIndex(x, y, z)
	if err != nil {
		return 0, 0, false, err
	}

	grid, err := s.await()
	if err != nil {
		return 0, 0, false, err
	}

	if grid.skyLight != nil {
		return grid.blockLight[idx], grid.skyLight[idx], true, nil
	}

	return grid.blockLight[idx], 0, false, nil
}

// All returns an iterator over the decoded blocks in flat index order. It waits for
// decode and yields nothing if decode failed.
func (s *Section) All() iter.Seq2[int, encoding.Block] {
	return func(yield func(int, encoding.Block) bool) {
		grid, err := s.await()
		if err != nil {
			return
		}

		for i, b := range grid.blocks {
			if !yield(i, b) {
				return
			}
		}
	}
}

// NonAirCount returns the number of blocks whose type is not air.
func (s *Section) NonAirCount() (int, error) {
	grid, err := s.await()
	if err != nil {
		return 0, err
	}

	n := 0
	for _, b := range grid.blocks {
		if !b.IsAir() {
			n++
		}
	}

	return n, nil
}

// Digest returns the xxHash64 of the decoded content: every global block id as a
// little-endian uint32 followed by the block light and sky light values.
func (s *Section) Digest() (uint64, error) {
	grid, err := s.await()
	if err != nil {
		return 0, err
	}

	buf, cleanup := pool.GetByteSlice(len(grid.blocks) * 4)
	defer cleanup()
	for i, b := range grid.blocks {
		binary.LittleEndian.PutUint32(buf[i*4:], b.GlobalID())
	}

	d := hash.NewDigest()
	_, _ = d.Write(buf)
	_, _ = d.Write(grid.blockLight)
	_, _ = d.Write(grid.skyLight)

	return d.Sum64(), nil
}

// Input returns a deep copy of the raw buffers of an undecoded section. ok is false once
// the section is decoded, since the raw buffers have been released.
func (s *Section) Input() (in Input, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.raw == nil {
		return Input{}, false
	}

	return s.raw.input().Clone(), true
}

// Clone returns an independent section holding deep copies of whichever buffers this
// section currently owns. A failed decode is carried over; a decode in progress is not,
// so the clone starts undecoded.
func (s *Section) Clone() *Section {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &Section{pos: s.pos, cfg: s.cfg}
	c.gate.init(&c.mu)
	c.gate.ready = s.gate.ready
	c.gate.err = s.gate.err
	if s.grid != nil {
		c.grid = s.grid.clone()
	}
	if s.raw != nil {
		c.raw = s.raw.clone()
	}

	return c
}

func flatIndex(x, y, z int) (int, error) {
	const edge = format.SectionEdge
	if x < 0 || x >= edge || y < 0 || y >= edge || z < 0 || z >= edge {
		return 0, errs.New(errs.KindCoordinateOutOfRange, "(%d,%d,%d) not in [0,%d)", x, y, z, edge)
	}

	return y*edge*edge + z*edge + x, nil
}
