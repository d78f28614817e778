package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_gateway_requests_total",
			Help: "Total number of POS terminal requests by operation and outcome",
		},
		[]string{"operation", "classification"},
	)

	gatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pos_gateway_request_duration_seconds",
			Help:    "Duration of POS terminal requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	duplicateOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_gateway_duplicate_operations_total",
			Help: "Refund/cancel/reverse attempts rejected by the evidence guard",
		},
		[]string{"operation"},
	)
)

// RecordGatewayOperation records one terminal call
func RecordGatewayOperation(operation, classification string, seconds float64) {
	gatewayRequestsTotal.WithLabelValues(operation, classification).Inc()
	gatewayRequestDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordDuplicateOperation records a rejected duplicate financial operation
func RecordDuplicateOperation(operation string) {
	duplicateOperationsTotal.WithLabelValues(operation).Inc()
}
