package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WormholeMetrics holds all Prometheus metrics for the wormhole module
type WormholeMetrics struct {
	VAAsVerified       *prometheus.CounterVec
	MessagesPosted     prometheus.Counter
	TransfersInitiated *prometheus.CounterVec
	TransfersCompleted *prometheus.CounterVec
}

var (
	wormholeMetricsOnce sync.Once
	wormholeMetrics     *WormholeMetrics
)

// NewWormholeMetrics creates and registers wormhole metrics (singleton pattern)
func NewWormholeMetrics() *WormholeMetrics {
	wormholeMetricsOnce.Do(func() {
		wormholeMetrics = &WormholeMetrics{
			VAAsVerified: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "crosslend",
					Subsystem: "wormhole",
					Name:      "vaas_verified_total",
					Help:      "VAA verification attempts by result",
				},
				[]string{"result"},
			),
			MessagesPosted: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "crosslend",
					Subsystem: "wormhole",
					Name:      "messages_posted_total",
					Help:      "Messages posted through the core bridge",
				},
			),
			TransfersInitiated: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "crosslend",
					Subsystem: "wormhole",
					Name:      "transfers_initiated_total",
					Help:      "Outbound token transfers by recipient chain",
				},
				[]string{"chain"},
			),
			TransfersCompleted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "crosslend",
					Subsystem: "wormhole",
					Name:      "transfers_completed_total",
					Help:      "Inbound token transfers by emitter chain",
				},
				[]string{"chain"},
			),
		}
	})
	return wormholeMetrics
}

// GetWormholeMetrics returns the singleton metrics instance
func GetWormholeMetrics() *WormholeMetrics {
	if wormholeMetrics == nil {
		return NewWormholeMetrics()
	}
	return wormholeMetrics
}
