package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		telegramAPICallsTotal,
		sendRateLimitedTotal,
	)
}

var (
	telegramAPICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_api_calls_total",
			Help: "Bot API calls by method and outcome (ok/api_error/transport_error).",
		},
		[]string{"method", "outcome"},
	)

	sendRateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "send_rate_limited_total",
			Help: "Total number of send-message calls rejected by the throttle.",
		},
	)
)

func IncTelegramCall(method, outcome string) {
	telegramAPICallsTotal.WithLabelValues(method, norm(outcome)).Inc()
}

func IncSendRateLimited() {
	sendRateLimitedTotal.Inc()
}
