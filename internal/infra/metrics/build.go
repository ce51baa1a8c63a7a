package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(gatewayBuildInfo)
}

var gatewayBuildInfo = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "telegram_gateway",
		Name:      "build_info",
		Help:      "Always 1; labels identify the running gateway binary.",
	},
	[]string{"version", "commit", "go_version"},
)

// SetBuildInfo is called once from main with values set by -ldflags.
func SetBuildInfo(version, commit string) {
	gatewayBuildInfo.WithLabelValues(version, commit, runtime.Version()).Set(1)
}
