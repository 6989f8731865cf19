package worker

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Result label values of SectionsDecoded.
const (
	resultSuccess  = "success"
	resultFailure  = "failure"
	resultCanceled = "canceled"
)

// Metrics holds all Prometheus metrics for the decode pool.
type Metrics struct {
	SectionsDecoded *prometheus.CounterVec
	DecodeSeconds   prometheus.Histogram
	Inflight        prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the provided registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	decoded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "voxsec_sections_decoded_total",
		Help: "Total section decodes by result",
	}, []string{"result"})

	seconds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "voxsec_section_decode_seconds",
		Help:    "Time spent decoding one section",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	})

	inflight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "voxsec_decode_inflight",
		Help: "Section decodes currently running",
	})

	reg.MustRegister(decoded, seconds, inflight)

	return &Metrics{
		SectionsDecoded: decoded,
		DecodeSeconds:   seconds,
		Inflight:        inflight,
	}
}
