package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		codesIssuedTotal,
		codeChecksTotal,
		redemptionsTotal,
	)
}

var (
	codesIssuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "activation_codes_issued_total",
			Help: "Total number of activation codes issued.",
		},
	)

	codeChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activation_code_checks_total",
			Help: "Code status checks by reported state.",
		},
		[]string{"state"}, // 'valid', 'used', 'not_found'
	)

	redemptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redemptions_total",
			Help: "Activation attempts by outcome.",
		},
		[]string{"outcome"}, // 'activated', 'already_used', 'not_found', 'error'
	)
)

func IncCodeIssued() { codesIssuedTotal.Inc() }

func IncCodeCheck(state string) {
	codeChecksTotal.WithLabelValues(norm(state)).Inc()
}

func IncRedemption(outcome string) {
	redemptionsTotal.WithLabelValues(norm(outcome)).Inc()
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
