package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resolverOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_resolver_operations_total",
			Help: "Resolver operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	degradedChecks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticket_resolver_degraded_checks_total",
			Help: "Network existence checks that degraded to 'absent' after an RPC failure",
		},
	)

	verifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_verifications_total",
			Help: "Entry verification attempts by outcome",
		},
		[]string{"outcome"},
	)

	rpcCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solana_rpc_calls_total",
			Help: "Solana RPC calls by method and result",
		},
		[]string{"method", "status"},
	)

	rpcDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "solana_rpc_call_duration_seconds",
			Help:    "Solana RPC call latency, retries included",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	purchaseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ticket_purchase_duration_seconds",
			Help:    "End to end duration of the gasless purchase flow",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)
)

// TrackResolverOp counts one resolver operation, e.g. ("read", "local_hit").
func TrackResolverOp(operation, outcome string) {
	resolverOps.WithLabelValues(operation, outcome).Inc()
}

// TrackDegradedCheck counts a network check that failed and was read as
// "no ticket". A persistent RPC outage shows up here and nowhere else.
func TrackDegradedCheck() {
	degradedChecks.Inc()
}

// TrackVerification counts one entry verification attempt.
func TrackVerification(outcome string) {
	verifications.WithLabelValues(outcome).Inc()
}

// TrackRPCCall counts one RPC call and its latency, retries included.
func TrackRPCCall(method, status string, start time.Time) {
	rpcCalls.WithLabelValues(method, status).Inc()
	rpcDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

// TrackPurchase records the wall time of one purchase flow.
func TrackPurchase(start time.Time) {
	purchaseDuration.Observe(time.Since(start).Seconds())
}
