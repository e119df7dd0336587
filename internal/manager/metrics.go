package manager

import "github.com/prometheus/client_golang/prometheus"

var (
	swapsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assistd",
			Subsystem: "adapters",
			Name:      "swaps_total",
			Help:      "Total adapter swap attempts by outcome",
		},
		[]string{"adapter", "outcome"},
	)

	generationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "assistd",
			Subsystem: "model",
			Name:      "generation_duration_seconds",
			Help:      "Duration of generation calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(swapsTotal, generationDuration)
}
