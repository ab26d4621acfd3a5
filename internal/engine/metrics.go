package engine

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors the message thread's readout
// cadence polls. Every increment happens off the real-time thread except
// PoolExhaustionTotal, whose write is the same acknowledged real-time
// exception documented on Diagnostics.PoolExhausted.
type Metrics struct {
	PoolExhaustionTotal prometheus.Counter
	RingFullTotal       prometheus.Counter
	CycleDetectedTotal  prometheus.Counter
	ActiveNodeCount     prometheus.Gauge
	BlockDuration       prometheus.Histogram
}

// NewMetrics registers a fresh set of collectors against reg. Pass
// prometheus.NewRegistry() in tests to avoid colliding with a
// process-global default registry across parallel test binaries.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PoolExhaustionTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "raudio_pool_exhaustion_total",
			Help: "Number of times the buffer pool grew past its pre-allocated size.",
		}),
		RingFullTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "raudio_ring_full_total",
			Help: "Number of pushes dropped because the SPSC ring was full.",
		}),
		CycleDetectedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "raudio_cycle_detected_total",
			Help: "Number of snapshot rebuilds that omitted a cyclic subset of nodes.",
		}),
		ActiveNodeCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "raudio_active_node_count",
			Help: "Number of nodes owned by the graph authority.",
		}),
		BlockDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "raudio_block_duration_seconds",
			Help:    "Wall-clock duration of one ProcessBlock call.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		}),
	}
	reg.MustRegister(m.PoolExhaustionTotal, m.RingFullTotal, m.CycleDetectedTotal, m.ActiveNodeCount, m.BlockDuration)
	return m
}
