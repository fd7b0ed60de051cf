package proxy

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// proxyMetrics holds forwarding-level counters. They live on the
// default registry so every proxy instance shares them.
type proxyMetrics struct {
	upstreamErrors   *prometheus.CounterVec
	noRouteResponses prometheus.Counter
}

var (
	metricsOnce     sync.Once
	metricsInstance *proxyMetrics
)

func getProxyMetrics() *proxyMetrics {
	metricsOnce.Do(func() {
		metricsInstance = &proxyMetrics{
			upstreamErrors: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "edgegw",
					Subsystem: "proxy",
					Name:      "upstream_errors_total",
					Help:      "Total number of upstream connection or response errors.",
				},
				[]string{"backend"},
			),
			noRouteResponses: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "edgegw",
					Subsystem: "proxy",
					Name:      "no_route_responses_total",
					Help:      "Total number of requests answered with 404 because no rule matched.",
				},
			),
		}
	})
	return metricsInstance
}
