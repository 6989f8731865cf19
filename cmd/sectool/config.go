package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/arloliu/voxsec/format"
	"github.com/go-kit/log/level"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DB          string `yaml:"db"`
	Workers     int    `yaml:"workers"`
	Compression string `yaml:"compression"`
	BigEndian   bool   `yaml:"big_endian"`
	Count       int    `yaml:"count"`
	Seed        int64  `yaml:"seed"`
	Readers     int    `yaml:"readers"`
	SkyLight    bool   `yaml:"sky_light"`
	LogLevel    string `yaml:"log_level"`
	MetricsAddr string `yaml:"metrics_addr,omitempty"`
}

func defaults() Config {
	return Config{
		Workers:     4,
		Compression: "s2",
		Count:       64,
		Seed:        1,
		Readers:     4,
		SkyLight:    true,
		LogLevel:    "info",
	}
}

// LoadConfig reads path over the defaults. An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := defaults()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errList []error
	if c.Workers < 1 {
		errList = append(errList, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.Count < 0 {
		errList = append(errList, fmt.Errorf("count must not be negative, got %d", c.Count))
	}
	if c.Readers < 0 {
		errList = append(errList, fmt.Errorf("readers must not be negative, got %d", c.Readers))
	}
	if _, ok := format.ParseCompressionType(c.Compression); !ok {
		errList = append(errList, fmt.Errorf("unknown compression %q", c.Compression))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errList = append(errList, err)
	}

	return errors.Join(errList...)
}

// CompressionType returns the parsed compression. Validate must have succeeded.
func (c Config) CompressionType() format.CompressionType {
	ct, _ := format.ParseCompressionType(c.Compression)
	return ct
}

func parseLevel(name string) (level.Option, error) {
	switch strings.ToLower(name) {
	case "debug":
		return level.AllowDebug(), nil
	case "info", "":
		return level.AllowInfo(), nil
	case "warn":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	default:
		return nil, fmt.Errorf("unknown log level %q", name)
	}
}
