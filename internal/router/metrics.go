package router

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains Prometheus metrics for the routing engine. The
// collectors are created unregistered so the gateway can attach them
// to the registry backing its /metrics endpoint.
type Metrics struct {
	ruleMatchesTotal *prometheus.CounterVec
	rewritesTotal    *prometheus.CounterVec
	noRouteTotal     prometheus.Counter
	activeRules      prometheus.Gauge
	swapsTotal       prometheus.Counter
}

// NewMetrics creates routing metrics under the given namespace.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "edgegw"
	}

	return &Metrics{
		ruleMatchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "router",
				Name:      "rule_matches_total",
				Help:      "Total number of requests matched per rule",
			},
			[]string{"rule"},
		),
		rewritesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "router",
				Name:      "rewrites_total",
				Help:      "Total number of path rewrites applied per rule",
			},
			[]string{"rule"},
		),
		noRouteTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "router",
				Name:      "no_route_total",
				Help:      "Total number of requests that matched no rule",
			},
		),
		activeRules: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "router",
				Name:      "active_rules",
				Help:      "Number of rules in the active rule set",
			},
		),
		swapsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "router",
				Name:      "rule_set_swaps_total",
				Help:      "Total number of rule set swaps",
			},
		),
	}
}

// Collectors returns all collectors for registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ruleMatchesTotal,
		m.rewritesTotal,
		m.noRouteTotal,
		m.activeRules,
		m.swapsTotal,
	}
}

// RecordMatch records a rule match.
func (m *Metrics) RecordMatch(rule string) {
	m.ruleMatchesTotal.WithLabelValues(rule).Inc()
}

// RecordRewrite records an applied path rewrite.
func (m *Metrics) RecordRewrite(rule string) {
	m.rewritesTotal.WithLabelValues(rule).Inc()
}

// RecordNoRoute records a request that matched no rule.
func (m *Metrics) RecordNoRoute() {
	m.noRouteTotal.Inc()
}

// SetActiveRules sets the active rule count.
func (m *Metrics) SetActiveRules(n int) {
	m.activeRules.Set(float64(n))
}

// RecordSwap records a rule set swap.
func (m *Metrics) RecordSwap() {
	m.swapsTotal.Inc()
}
