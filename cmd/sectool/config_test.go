package main

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/voxsec/encoding"
	"github.com/arloliu/voxsec/endian"
	"github.com/arloliu/voxsec/format"
	"github.com/arloliu/voxsec/section"
	"github.com/arloliu/voxsec/worker"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sectool.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadConfig_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaults(), cfg)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, format.CompressionS2, cfg.CompressionType())
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
db: /tmp/sections.db
workers: 2
compression: zstd
count: 10
seed: 42
sky_light: false
metrics_addr: ":9100"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/sections.db", cfg.DB)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, format.CompressionZstd, cfg.CompressionType())
	assert.Equal(t, 10, cfg.Count)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.False(t, cfg.SkyLight)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
	// Unset keys keep their defaults.
	assert.Equal(t, defaults().Readers, cfg.Readers)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "workers: [1"))
		require.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "workers: 0\ncompression: brotli\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "workers")
		assert.Contains(t, err.Error(), "brotli")
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"no compression", func(c *Config) { c.Compression = "none" }, true},
		{"zero workers", func(c *Config) { c.Workers = 0 }, false},
		{"negative count", func(c *Config) { c.Count = -1 }, false},
		{"negative readers", func(c *Config) { c.Readers = -1 }, false},
		{"unknown compression", func(c *Config) { c.Compression = "gzip" }, false},
		{"unknown log level", func(c *Config) { c.LogLevel = "trace" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(&cfg)
			if tt.ok {
				require.NoError(t, cfg.Validate())
			} else {
				require.Error(t, cfg.Validate())
			}
		})
	}
}

func TestSynthInput_Decodes(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 0))
	packer := encoding.NewBitPacker(endian.GetBigEndianEngine())

	for range 8 {
		in, err := synthInput(rng, packer, true)
		require.NoError(t, err)
		require.NoError(t, in.Validate())
		assert.Equal(t, uint32(0), in.Palette[0])

		s, err := section.New(section.Pos{}, in)
		require.NoError(t, err)
		require.NoError(t, s.Decode())
	}
}

func TestGridPos_Unique(t *testing.T) {
	seen := make(map[section.Pos]bool)
	for i := range 200 {
		pos := gridPos(i)
		assert.False(t, seen[pos], "duplicate position %s", pos)
		seen[pos] = true
	}
}

func TestRun(t *testing.T) {
	for _, db := range []string{"", "sections.db"} {
		name := "memory"
		if db != "" {
			name = "sqlite"
			db = filepath.Join(t.TempDir(), db)
		}

		t.Run(name, func(t *testing.T) {
			cfg := defaults()
			cfg.DB = db
			cfg.Count = 12
			cfg.Workers = 3
			cfg.Compression = "zstd"
			cfg.BigEndian = true

			metrics := worker.NewMetrics(prometheus.NewRegistry())
			require.NoError(t, run(context.Background(), cfg, log.NewNopLogger(), metrics))
		})
	}
}
