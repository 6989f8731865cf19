package section

import (
	"github.com/arloliu/voxsec/endian"
	"github.com/arloliu/voxsec/internal/options"
	"github.com/go-kit/log"
)

type config struct {
	wire   endian.EndianEngine
	logger log.Logger
}

func defaultConfig() config {
	return config{
		wire:   endian.GetBigEndianEngine(),
		logger: log.NewNopLogger(),
	}
}

// Option configures a Section.
type Option = options.Option[*config]

// WithWireOrder sets the byte order of the packed 64-bit block words.
// The default is big-endian. A nil engine keeps the default.
func WithWireOrder(engine endian.EndianEngine) Option {
	return options.NoError(func(c *config) {
		if engine != nil {
			c.wire = engine
		}
	})
}

// WithLogger sets the logger used for decode diagnostics.
func WithLogger(logger log.Logger) Option {
	return options.NoError(func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	})
}
