package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PlaysTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_plays_total",
			Help: "Count of committed plays by promotion and outcome.",
		},
		[]string{"promotion", "outcome"},
	)

	WinProbability = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engine_win_probability",
			Help:    "Distribution of computed win probabilities.",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	AllocationRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_allocation_retries_total",
			Help: "Commit retries caused by concurrent allocation conflicts.",
		},
	)

	StockDemotions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_stock_demotions_total",
			Help: "Wins demoted to losses because no prize had remaining stock.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		PlaysTotal,
		WinProbability,
		AllocationRetries,
		StockDemotions,
	)
}
