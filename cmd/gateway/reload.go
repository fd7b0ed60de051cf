package main

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"reflect"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Denyme24/edgegw/internal/config"
	"github.com/Denyme24/edgegw/internal/observability"
)

// reloadMetrics holds Prometheus metrics for configuration reload
// operations. All collectors are registered with the gateway's custom
// registry so they appear on the /metrics endpoint.
type reloadMetrics struct {
	configReloadTotal       *prometheus.CounterVec
	configReloadDuration    prometheus.Histogram
	configReloadLastSuccess prometheus.Gauge
	configWatcherStatus     prometheus.Gauge
}

// newReloadMetrics creates reload metrics and registers them with the
// provided Metrics instance's custom registry.
func newReloadMetrics(m *observability.Metrics) *reloadMetrics {
	rm := &reloadMetrics{
		configReloadTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "edgegw",
				Name:      "config_reload_total",
				Help:      "Total number of configuration reloads",
			},
			[]string{"result"},
		),
		configReloadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "edgegw",
				Name:      "config_reload_duration_seconds",
				Help:      "Duration of configuration reload operations",
				Buckets: []float64{
					.01, .05, .1, .25, .5, 1, 2.5, 5,
				},
			},
		),
		configReloadLastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "edgegw",
				Name:      "config_reload_last_success_timestamp",
				Help:      "Timestamp of last successful config reload",
			},
		),
		configWatcherStatus: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "edgegw",
				Name:      "config_watcher_running",
				Help:      "Whether the config file watcher is running (1=running, 0=stopped)",
			},
		),
	}

	collectors := []prometheus.Collector{
		rm.configReloadTotal,
		rm.configReloadDuration,
		rm.configReloadLastSuccess,
		rm.configWatcherStatus,
	}
	for _, c := range collectors {
		// Duplicate registration is harmless; descriptors are identical.
		_ = m.RegisterCollector(c)
	}

	return rm
}

// ensureReloadMetrics returns the application's reload metrics,
// lazily initializing them when the application was created without
// calling initApplication (e.g. in tests).
func ensureReloadMetrics(app *application) *reloadMetrics {
	if app.reloadMetrics != nil {
		return app.reloadMetrics
	}
	m := observability.NewMetrics("edgegw")
	app.reloadMetrics = newReloadMetrics(m)
	return app.reloadMetrics
}

// startConfigWatcher starts the configuration watcher.
func startConfigWatcher(
	ctx context.Context,
	app *application,
	configPath string,
	logger observability.Logger,
) *config.Watcher {
	rm := ensureReloadMetrics(app)

	watcher, err := config.NewWatcher(configPath, func(newCfg *config.GatewayConfig) {
		logger.Info("configuration changed, reloading")
		reloadRules(app, newCfg, logger)
	}, config.WithLogger(logger))

	if err != nil {
		logger.Warn("failed to create config watcher", observability.Error(err))
		rm.configWatcherStatus.Set(0)
		return nil
	}

	if err := watcher.Start(ctx); err != nil {
		logger.Warn("failed to start config watcher", observability.Error(err))
		rm.configWatcherStatus.Set(0)
		return nil
	}

	rm.configWatcherStatus.Set(1)
	return watcher
}

// reloadRules compiles the new rule set and swaps it into the routing
// table. A compile failure leaves the active rule set untouched, so a
// bad config file never takes routing down.
//
// NOTE: the listener, rate limiter, and circuit breaker are part of
// the static handler chain and are NOT hot-reloaded. Changes to those
// sections require a gateway restart; only backends and routing rules
// take effect on reload.
func reloadRules(
	app *application,
	newCfg *config.GatewayConfig,
	logger observability.Logger,
) {
	start := time.Now()
	rm := ensureReloadMetrics(app)

	if err := app.gateway.Reload(newCfg); err != nil {
		logger.Error("failed to reload routing rules",
			observability.Error(err),
		)
		rm.configReloadTotal.WithLabelValues("error").Inc()
		rm.configReloadDuration.Observe(time.Since(start).Seconds())
		return
	}

	if listenerConfigChanged(app.config, newCfg) {
		logger.Warn("listener configuration has changed but the listener is NOT hot-reloaded; " +
			"restart the gateway to apply listener changes")
	}

	if middlewareConfigChanged(app.config, newCfg) {
		logger.Warn("rate limit or circuit breaker configuration has changed but the handler " +
			"chain is NOT hot-reloaded; restart the gateway to apply those changes")
	}

	app.config = newCfg

	rm.configReloadTotal.WithLabelValues("success").Inc()
	rm.configReloadDuration.Observe(time.Since(start).Seconds())
	rm.configReloadLastSuccess.SetToCurrentTime()

	logger.Info("routing rules reloaded successfully")
}

// configSectionHash computes a SHA-256 hash of a configuration section
// for fast change detection. Falls back to reflect.DeepEqual when JSON
// marshaling fails.
func configSectionHash(v interface{}) ([sha256.Size]byte, bool) {
	data, err := json.Marshal(v)
	if err != nil {
		return [sha256.Size]byte{}, false
	}
	return sha256.Sum256(data), true
}

// configSectionChanged compares two configuration sections.
func configSectionChanged(oldSection, newSection interface{}) bool {
	oldHash, oldOK := configSectionHash(oldSection)
	newHash, newOK := configSectionHash(newSection)
	if oldOK && newOK {
		return oldHash != newHash
	}
	return !reflect.DeepEqual(oldSection, newSection)
}

// listenerConfigChanged checks if listener configuration has changed.
func listenerConfigChanged(oldCfg, newCfg *config.GatewayConfig) bool {
	if oldCfg == nil || newCfg == nil {
		return oldCfg != newCfg
	}
	return configSectionChanged(oldCfg.Listener, newCfg.Listener)
}

// middlewareConfigChanged checks if rate limit or circuit breaker
// configuration has changed.
func middlewareConfigChanged(oldCfg, newCfg *config.GatewayConfig) bool {
	if oldCfg == nil || newCfg == nil {
		return oldCfg != newCfg
	}
	if configSectionChanged(oldCfg.RateLimit, newCfg.RateLimit) {
		return true
	}
	return configSectionChanged(oldCfg.CircuitBreaker, newCfg.CircuitBreaker)
}
