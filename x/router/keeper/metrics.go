package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RouterMetrics holds all Prometheus metrics for the router module
type RouterMetrics struct {
	ProxiesProvisioned prometheus.Counter
	ProvisionNoops     *prometheus.CounterVec
	Operations         *prometheus.CounterVec
	AssetsRelayed      *prometheus.CounterVec
}

var (
	routerMetricsOnce sync.Once
	routerMetrics     *RouterMetrics
)

// NewRouterMetrics creates and registers router metrics (singleton pattern)
func NewRouterMetrics() *RouterMetrics {
	routerMetricsOnce.Do(func() {
		routerMetrics = &RouterMetrics{
			ProxiesProvisioned: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "crosslend",
					Subsystem: "router",
					Name:      "proxies_provisioned_total",
					Help:      "Total number of proxies provisioned",
				},
			),
			ProvisionNoops: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "crosslend",
					Subsystem: "router",
					Name:      "provision_noops_total",
					Help:      "Provisioning requests ignored because the proxy exists or is in flight",
				},
				[]string{"reason"},
			),
			Operations: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "crosslend",
					Subsystem: "router",
					Name:      "operations_total",
					Help:      "Total number of routed operations",
				},
				[]string{"op", "status"},
			),
			AssetsRelayed: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "crosslend",
					Subsystem: "router",
					Name:      "assets_relayed_total",
					Help:      "Total number of owed assets handed to a relay",
				},
				[]string{"op", "kind"},
			),
		}
	})
	return routerMetrics
}

// GetRouterMetrics returns the singleton metrics instance
func GetRouterMetrics() *RouterMetrics {
	if routerMetrics == nil {
		return NewRouterMetrics()
	}
	return routerMetrics
}
