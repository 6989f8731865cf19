// Command sectool generates synthetic chunk sections, archives them into a store, reloads
// them and decodes them on a worker pool while concurrent readers query blocks.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/bits"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/voxsec/archive"
	"github.com/arloliu/voxsec/encoding"
	"github.com/arloliu/voxsec/endian"
	"github.com/arloliu/voxsec/event"
	"github.com/arloliu/voxsec/format"
	"github.com/arloliu/voxsec/section"
	"github.com/arloliu/voxsec/store"
	"github.com/arloliu/voxsec/worker"
)

func main() {
	var (
		configPath  string
		db          string
		workers     int
		compression string
		count       int
		seed        int64
		logLevel    string
	)

	flag.StringVar(&configPath, "config", "", "YAML configuration file")
	flag.StringVar(&db, "db", "", "SQLite database path (in-memory store when empty)")
	flag.IntVar(&workers, "workers", 0, "Number of concurrent section decodes")
	flag.StringVar(&compression, "compression", "", "Archive compression: none, zstd, s2, lz4")
	flag.IntVar(&count, "count", 0, "Number of synthetic sections")
	flag.Int64Var(&seed, "seed", 0, "Random seed for synthetic sections")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.Parse()

	cfg, err := LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Explicit flags win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "db":
			cfg.DB = db
		case "workers":
			cfg.Workers = workers
		case "compression":
			cfg.Compression = compression
		case "count":
			cfg.Count = count
		case "seed":
			cfg.Seed = seed
		case "log-level":
			cfg.LogLevel = logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	logger := newLogger(cfg)

	reg := prometheus.NewRegistry()
	metrics := worker.NewMetrics(reg)

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		metricsServer = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			level.Info(logger).Log("msg", "starting metrics server", "addr", cfg.MetricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				level.Error(logger).Log("msg", "metrics server failed", "err", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := run(ctx, cfg, logger, metrics)

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = metricsServer.Shutdown(shutdownCtx)
		cancel()
	}

	if runErr != nil {
		level.Error(logger).Log("msg", "sectool failed", "err", runErr)
		os.Exit(1)
	}
}

func newLogger(cfg Config) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	logger = log.With(logger, "caller", log.DefaultCaller)

	// Validate has already rejected unknown levels.
	lvl, _ := parseLevel(cfg.LogLevel)

	return level.NewFilter(logger, lvl)
}

type summary struct {
	stored   int
	decoded  atomic.Int64
	failed   atomic.Int64
	reads    atomic.Int64
	nonAir   atomic.Int64
	digest   uint64
	duration time.Duration
}

func run(ctx context.Context, cfg Config, logger log.Logger, metrics *worker.Metrics) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	// Headers follow the configured order; packed block words are always big-endian.
	encOpts := []archive.EncoderOption{archive.WithCompression(cfg.CompressionType())}
	if cfg.BigEndian {
		encOpts = append(encOpts, archive.WithBigEndian())
	}
	enc, err := archive.NewEncoder(encOpts...)
	if err != nil {
		return err
	}

	var sum summary
	start := time.Now()

	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), 0))
	packer := encoding.NewBitPacker(endian.GetBigEndianEngine())
	for i := range cfg.Count {
		pos := gridPos(i)
		in, err := synthInput(rng, packer, cfg.SkyLight)
		if err != nil {
			return fmt.Errorf("generate section %s: %w", pos, err)
		}
		rec, err := enc.Encode(pos, in)
		if err != nil {
			return fmt.Errorf("archive section %s: %w", pos, err)
		}
		if _, err := store.Save(ctx, st, rec); err != nil {
			return err
		}
		sum.stored++
	}
	level.Info(logger).Log("msg", "stored synthetic sections", "count", sum.stored, "compression", cfg.CompressionType())

	positions, err := st.Positions(ctx)
	if err != nil {
		return err
	}

	sections := make([]*section.Section, 0, len(positions))
	for _, pos := range positions {
		s, err := store.Load(ctx, st, pos, section.WithLogger(logger))
		if err != nil {
			return err
		}
		sections = append(sections, s)
	}

	bus := event.NewBus()
	defer bus.Close()

	listener := bus.NewListener()
	defer listener.Close()
	err = listener.HandleName(worker.EventDecoded, func(e event.Event) {
		p, err := event.Payload[worker.Decoded](e)
		if err != nil {
			return
		}
		sum.decoded.Add(1)
		sum.digest ^= p.Digest
	})
	if err != nil {
		return err
	}
	err = listener.HandleName(worker.EventDecodeFailed, func(e event.Event) {
		p, err := event.Payload[worker.Failed](e)
		if err != nil {
			return
		}
		sum.failed.Add(1)
		level.Warn(logger).Log("msg", "section failed", "pos", p.Pos, "err", p.Err)
	})
	if err != nil {
		return err
	}

	pool, err := worker.NewPool(
		worker.WithConcurrency(cfg.Workers),
		worker.WithLogger(logger),
		worker.WithMetrics(metrics),
		worker.WithBus(bus),
	)
	if err != nil {
		return err
	}

	readers, readCtx := errgroup.WithContext(ctx)
	for r := range cfg.Readers {
		readers.Go(func() error {
			return readSections(readCtx, sections, rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(r)+1)), &sum)
		})
	}

	for _, s := range sections {
		if err := pool.Submit(ctx, s); err != nil {
			break
		}
	}
	decodeErr := pool.Close()

	// A canceled run leaves sections the pool skipped; readers may be parked on them.
	for _, s := range sections {
		if !s.IsDecoded() && s.Err() == nil {
			_ = s.Decode()
		}
	}
	readErr := readers.Wait()

	listener.HandleAll()
	sum.duration = time.Since(start)

	level.Info(logger).Log(
		"msg", "sectool finished",
		"stored", sum.stored,
		"decoded", sum.decoded.Load(),
		"failed", sum.failed.Load(),
		"reads", sum.reads.Load(),
		"non_air", sum.nonAir.Load(),
		"digest", fmt.Sprintf("%016x", sum.digest),
		"duration", sum.duration,
	)

	if decodeErr != nil {
		level.Warn(logger).Log("msg", "some sections failed to decode", "err", decodeErr)
	}

	return readErr
}

func openStore(cfg Config) (store.Store, error) {
	if cfg.DB == "" {
		return store.NewMemoryStore(), nil
	}

	return store.OpenSQLite(cfg.DB)
}

// gridPos lays sections out in an 8×8 column grid, stacking upward.
func gridPos(i int) section.Pos {
	return section.Pos{
		X: int32(i % 8),
		Y: int32(i / 64),
		Z: int32((i / 8) % 8),
	}
}

// synthInput builds random section buffers. Palette entry 0 is always air and the bit
// width is sometimes wider than the palette needs.
func synthInput(rng *rand.Rand, packer *encoding.BitPacker, withSky bool) (section.Input, error) {
	paletteLen := 1 + rng.IntN(48)
	palette := make([]uint32, paletteLen)
	for i := 1; i < paletteLen; i++ {
		palette[i] = rng.Uint32N(1 << 16)
	}

	width := max(bits.Len(uint(paletteLen-1)), format.MinBitsPerBlock) + rng.IntN(3)

	indices := make([]uint32, format.SectionBlockCount)
	for i := range indices {
		indices[i] = rng.Uint32N(uint32(paletteLen))
	}
	blocks, err := packer.Pack(indices, width)
	if err != nil {
		return section.Input{}, err
	}

	in := section.Input{
		Blocks:       blocks,
		BitsPerBlock: width,
		Palette:      palette,
		BlockLight:   randomBytes(rng, format.LightBufferSize),
	}
	if withSky {
		in.SkyLight = randomBytes(rng, format.LightBufferSize)
	}

	return in, nil
}

func randomBytes(rng *rand.Rand, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(rng.Uint32())
	}

	return b
}

// readSections queries random blocks of every section. Reads on undecoded sections
// block until the pool decodes them; failed sections are skipped.
func readSections(ctx context.Context, sections []*section.Section, rng *rand.Rand, sum *summary) error {
	for _, s := range sections {
		if err := ctx.Err(); err != nil {
			return err
		}

		for range 16 {
			b, err := s.GetBlock(rng.IntN(format.SectionEdge), rng.IntN(format.SectionEdge), rng.IntN(format.SectionEdge))
			if err != nil {
				break
			}
			sum.reads.Add(1)
			if !b.IsAir() {
				sum.nonAir.Add(1)
			}
		}
	}

	return nil
}
