// Package worker decodes sections on a bounded set of background goroutines.
//
// Readers may call GetBlock on a submitted section right away; they block until the
// pool has decoded it.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/arloliu/voxsec/errs"
	"github.com/arloliu/voxsec/event"
	"github.com/arloliu/voxsec/internal/options"
	"github.com/arloliu/voxsec/section"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/errgroup"
)

// Event names and kinds published on the configured bus.
const (
	EventDecoded      = "section.decoded"
	EventDecodeFailed = "section.decode_failed"
)

var (
	KindDecoded      = event.KindOf(EventDecoded)
	KindDecodeFailed = event.KindOf(EventDecodeFailed)
)

// Decoded is the payload of KindDecoded.
type Decoded struct {
	Pos      section.Pos
	Digest   uint64
	Duration time.Duration
}

// Failed is the payload of KindDecodeFailed.
type Failed struct {
	Pos section.Pos
	Err error
}

// Pool decodes submitted sections with bounded concurrency.
//
// One failed decode does not stop the others; every failure is reported by Wait.
type Pool struct {
	cfg config
	g   errgroup.Group

	mu     sync.Mutex // serializes admission against Close
	closed bool

	errMu sync.Mutex
	errs  []error
}

// NewPool creates a decode pool.
func NewPool(opts ...Option) (*Pool, error) {
	p := &Pool{cfg: defaultConfig()}
	if err := options.Apply(&p.cfg, opts...); err != nil {
		return nil, err
	}
	p.g.SetLimit(p.cfg.concurrency)

	if bus := p.cfg.bus; bus != nil {
		for _, name := range []string{EventDecoded, EventDecodeFailed} {
			if _, err := bus.Register(name); err != nil {
				return nil, err
			}
		}
	}

	return p, nil
}

// Submit schedules s for decoding. It blocks while the pool is at its concurrency limit.
//
// A section whose ctx is done before its decode starts is skipped and reported by Wait.
//
// Returns errs.ErrPoolClosed after Close.
func (p *Pool) Submit(ctx context.Context, s *section.Section) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errs.ErrPoolClosed
	}

	p.g.Go(func() error {
		if err := p.decode(ctx, s); err != nil {
			p.errMu.Lock()
			p.errs = append(p.errs, err)
			p.errMu.Unlock()
		}

		return nil
	})

	return nil
}

// Wait blocks until every submitted section is processed and returns the joined
// failures since the previous Wait. Wait must not run concurrently with Submit.
func (p *Pool) Wait() error {
	_ = p.g.Wait()

	p.errMu.Lock()
	defer p.errMu.Unlock()
	err := errors.Join(p.errs...)
	p.errs = nil

	return err
}

// Close rejects further submissions and waits for the running decodes.
func (p *Pool) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	return p.Wait()
}

func (p *Pool) decode(ctx context.Context, s *section.Section) error {
	pos := s.Position()
	m := p.cfg.metrics

	if err := ctx.Err(); err != nil {
		if m != nil {
			m.SectionsDecoded.WithLabelValues(resultCanceled).Inc()
		}

		return fmt.Errorf("section %s: %w", pos, err)
	}

	if m != nil {
		m.Inflight.Inc()
		defer m.Inflight.Dec()
	}

	start := time.Now()
	err := s.Decode()
	elapsed := time.Since(start)

	if err != nil {
		if m != nil {
			m.SectionsDecoded.WithLabelValues(resultFailure).Inc()
		}
		level.Warn(p.cfg.logger).Log("msg", "section decode failed", "pos", pos, "err", err)
		p.publish(KindDecodeFailed, Failed{Pos: pos, Err: err})

		return fmt.Errorf("section %s: %w", pos, err)
	}

	if m != nil {
		m.SectionsDecoded.WithLabelValues(resultSuccess).Inc()
		m.DecodeSeconds.Observe(elapsed.Seconds())
	}

	digest, err := s.Digest()
	if err != nil {
		return fmt.Errorf("section %s: %w", pos, err)
	}
	level.Debug(p.cfg.logger).Log("msg", "section decoded", "pos", pos, "duration", elapsed)
	p.publish(KindDecoded, Decoded{Pos: pos, Digest: digest, Duration: elapsed})

	return nil
}

func (p *Pool) publish(kind event.Kind, payload any) {
	if p.cfg.bus == nil {
		return
	}
	if err := p.cfg.bus.Publish(kind, payload); err != nil {
		level.Debug(p.cfg.logger).Log("msg", "decode event dropped", "err", err)
	}
}
