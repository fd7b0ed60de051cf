package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Denyme24/edgegw/internal/config"
	"github.com/Denyme24/edgegw/internal/gateway"
	"github.com/Denyme24/edgegw/internal/health"
	"github.com/Denyme24/edgegw/internal/observability"
)

// application holds all application components.
type application struct {
	gateway       *gateway.Gateway
	healthChecker *health.Checker
	metrics       *observability.Metrics
	tracer        *observability.Tracer
	config        *config.GatewayConfig
	reloadMetrics *reloadMetrics
}

// initApplication initializes all application components.
func initApplication(cfg *config.GatewayConfig, logger observability.Logger) *application {
	metrics := observability.NewMetrics("edgegw")
	metrics.SetBuildInfo(version, gitCommit, buildTime)

	tracer := initTracer(cfg, logger)
	healthChecker := health.NewChecker(version)

	gw, err := gateway.New(cfg,
		gateway.WithLogger(logger),
		gateway.WithMetrics(metrics),
		gateway.WithTracer(tracer),
	)
	if err != nil {
		logger.Fatal("failed to create gateway", observability.Error(err))
	}

	healthChecker.RegisterCheck("routing", health.RoutingTableCheck(gw.Table()))

	app := &application{
		gateway:       gw,
		healthChecker: healthChecker,
		metrics:       metrics,
		tracer:        tracer,
		config:        cfg,
	}
	app.reloadMetrics = newReloadMetrics(metrics)

	return app
}

// initTracer initializes the tracer.
func initTracer(cfg *config.GatewayConfig, logger observability.Logger) *observability.Tracer {
	tracerCfg := observability.TracerConfig{
		ServiceName:  "edgegw",
		Enabled:      false,
		SamplingRate: 1.0,
	}

	if cfg.Observability.Tracing != nil {
		tracerCfg.Enabled = cfg.Observability.Tracing.Enabled
		tracerCfg.OTLPEndpoint = cfg.Observability.Tracing.OTLPEndpoint
		if cfg.Observability.Tracing.SampleRate > 0 {
			tracerCfg.SamplingRate = cfg.Observability.Tracing.SampleRate
		}
		if cfg.Observability.Tracing.ServiceName != "" {
			tracerCfg.ServiceName = cfg.Observability.Tracing.ServiceName
		}
	}

	tracer, err := observability.NewTracer(tracerCfg)
	if err != nil {
		logger.Fatal("failed to initialize tracer", observability.Error(err))
	}

	return tracer
}

// startMetricsServerIfEnabled starts the metrics server when a port is
// configured.
func startMetricsServerIfEnabled(app *application, logger observability.Logger) {
	port := app.config.Observability.MetricsPort
	if port == 0 {
		return
	}

	go startMetricsServer(port, app.config.Observability.GetMetricsPath(), app.metrics, logger)
}

// startHealthServerIfEnabled starts the health server when a port is
// configured.
func startHealthServerIfEnabled(app *application, logger observability.Logger) {
	port := app.config.Observability.HealthPort
	if port == 0 {
		return
	}

	srv := health.NewServer(port, app.healthChecker)
	logger.Info("starting health server", observability.Int("port", port))

	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("health server error", observability.Error(err))
		}
	}()
}

// startMetricsServer starts the metrics HTTP server.
func startMetricsServer(
	port int,
	path string,
	metrics *observability.Metrics,
	logger observability.Logger,
) {
	mux := http.NewServeMux()
	mux.Handle(path, metrics.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info("starting metrics server",
		observability.String("address", addr),
		observability.String("metrics_path", path),
	)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server error", observability.Error(err))
	}
}
