package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(relayAttemptsTotal, relayDuration)
}

var (
	relayAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_attempts_total",
			Help: "Webhook relay attempts by outcome (delivered/rejected/transport_error).",
		},
		[]string{"outcome"},
	)

	relayDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_duration_seconds",
			Help:    "Latency of the outbound relay POST.",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"outcome"},
	)
)

func ObserveRelay(outcome string, d time.Duration) {
	relayAttemptsTotal.WithLabelValues(norm(outcome)).Inc()
	relayDuration.WithLabelValues(norm(outcome)).Observe(d.Seconds())
}
