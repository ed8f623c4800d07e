package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(premiumGateDenials) }

var premiumGateDenials = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "premium_gate_denials_total",
		Help: "Content requests rejected because the requester lacked entitlement.",
	},
	[]string{"surface"}, // 'fetch' (listings silently filter instead)
)

func IncGateDenied(surface string) {
	premiumGateDenials.WithLabelValues(norm(surface)).Inc()
}
