package worker

import (
	"fmt"
	"runtime"

	"github.com/arloliu/voxsec/event"
	"github.com/arloliu/voxsec/internal/options"
	"github.com/go-kit/log"
)

type config struct {
	concurrency int
	logger      log.Logger
	metrics     *Metrics
	bus         *event.Bus
}

func defaultConfig() config {
	return config{
		concurrency: runtime.GOMAXPROCS(0),
		logger:      log.NewNopLogger(),
	}
}

// Option configures a Pool.
type Option = options.Option[*config]

// WithConcurrency sets the maximum number of sections decoded at once.
func WithConcurrency(n int) Option {
	return options.New(func(c *config) error {
		if n < 1 {
			return fmt.Errorf("concurrency must be at least 1, got %d", n)
		}
		c.concurrency = n

		return nil
	})
}

// WithLogger sets the pool logger.
func WithLogger(logger log.Logger) Option {
	return options.NoError(func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithMetrics records decode metrics. Metrics are disabled by default.
func WithMetrics(m *Metrics) Option {
	return options.NoError(func(c *config) {
		c.metrics = m
	})
}

// WithBus publishes a KindDecoded or KindDecodeFailed event after every decode.
func WithBus(bus *event.Bus) Option {
	return options.NoError(func(c *config) {
		c.bus = bus
	})
}
