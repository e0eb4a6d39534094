package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// GatewayMetrics holds all Prometheus metrics for the gateway module
type GatewayMetrics struct {
	Instructions      *prometheus.CounterVec
	Rejections        *prometheus.CounterVec
	OutboundTransfers *prometheus.CounterVec
	TolerantSubmits   prometheus.Counter
}

var (
	gatewayMetricsOnce sync.Once
	gatewayMetrics     *GatewayMetrics
)

// NewGatewayMetrics creates and registers gateway metrics (singleton pattern)
func NewGatewayMetrics() *GatewayMetrics {
	gatewayMetricsOnce.Do(func() {
		gatewayMetrics = &GatewayMetrics{
			Instructions: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "crosslend",
					Subsystem: "gateway",
					Name:      "instructions_total",
					Help:      "Submitted instructions by opcode and status",
				},
				[]string{"opcode", "status"},
			),
			Rejections: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "crosslend",
					Subsystem: "gateway",
					Name:      "rejections_total",
					Help:      "Rejected submissions by error class",
				},
				[]string{"class"},
			),
			OutboundTransfers: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "crosslend",
					Subsystem: "gateway",
					Name:      "outbound_transfers_total",
					Help:      "Assets relayed back to remote chains",
				},
				[]string{"chain", "kind"},
			),
			TolerantSubmits: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "crosslend",
					Subsystem: "gateway",
					Name:      "transfers_already_completed_total",
					Help:      "Companion transfers that were already completed by a third party",
				},
			),
		}
	})
	return gatewayMetrics
}

// GetGatewayMetrics returns the singleton metrics instance
func GetGatewayMetrics() *GatewayMetrics {
	if gatewayMetrics == nil {
		return NewGatewayMetrics()
	}
	return gatewayMetrics
}
