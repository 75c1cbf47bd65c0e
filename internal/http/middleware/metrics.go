package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_requests_total",
			Help: "Total requests seen by the rate limiter",
		},
		[]string{"endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Total requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)

	// EngineOps counts engine operations by outcome: mining claims,
	// registrations, withdrawal requests and decisions, check-ins.
	EngineOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_operations_total",
			Help: "Total engine operations by name and outcome",
		},
		[]string{"operation", "status"},
	)
)

func init() {
	prometheus.MustRegister(RLRequests)
	prometheus.MustRegister(RLBlocked)
	prometheus.MustRegister(EngineOps)
}

// CountOp records one engine operation outcome.
func CountOp(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	EngineOps.WithLabelValues(operation, status).Inc()
}
