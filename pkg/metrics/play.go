package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the play HTTP handler
	PlayLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "play_latency_seconds",
		Help:    "Latency of the play endpoint handler",
		Buckets: prometheus.DefBuckets,
	})

	// Total number of play requests received over HTTP
	PlayRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "play_requests_total",
		Help: "Total number of play requests",
	})
)

func Init() {
	prometheus.MustRegister(
		PlayLatency,
		PlayRequests,
	)
}
