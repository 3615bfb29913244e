package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Snapshot metrics
	FundCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fundswap_fund_count",
		Help: "Number of funds in the current snapshot",
	})

	TokenCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fundswap_token_count",
		Help: "Number of tokens in the current snapshot",
	})

	SnapshotSlot = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fundswap_snapshot_slot",
		Help: "Slot of the current snapshot",
	})

	SnapshotUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundswap_snapshot_updates_total",
			Help: "Total number of snapshot updates",
		},
		[]string{"source", "status"},
	)

	// Quote metrics
	QuoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundswap_quote_requests_total",
			Help: "Total number of quote requests",
		},
		[]string{"status"},
	)

	QuoteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fundswap_quote_duration_seconds",
		Help:    "Quote calculation duration in seconds",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	})

	FundsEvaluated = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fundswap_funds_evaluated",
		Help:    "Number of funds evaluated per quote request",
		Buckets: []float64{1, 2, 3, 5, 10, 20, 50, 100},
	})

	QuoteCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fundswap_quote_cache_hits_total",
		Help: "Total number of quote cache hits",
	})

	QuoteCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fundswap_quote_cache_misses_total",
		Help: "Total number of quote cache misses",
	})

	QuoteCacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fundswap_quote_cache_size",
		Help: "Current number of entries in the quote cache",
	})

	// Swap metrics
	SwapRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundswap_swap_requests_total",
			Help: "Total number of swap instruction build requests",
		},
		[]string{"status"},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundswap_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fundswap_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
