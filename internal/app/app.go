// Package app wires the pieces every service process shares: config,
// logging, tracing, metrics, the store backend and the event publisher.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"libranexus/internal/chaos"
	"libranexus/internal/gateway"
	"libranexus/internal/platform/config"
	"libranexus/internal/platform/logging"
	"libranexus/internal/platform/metrics"
	"libranexus/internal/platform/server"
	"libranexus/internal/platform/telemetry"
	"libranexus/internal/store"
	"libranexus/internal/store/backend"
)

const requestTimeout = 30 * time.Second

type App struct {
	Name      string
	Config    config.Config
	Logger    *slog.Logger
	Registry  *prometheus.Registry
	Metrics   *metrics.Metrics
	Store     *backend.Opened
	Publisher gateway.Publisher
	// Injector is set when chaos faults are enabled.
	Injector *chaos.Injector

	closers []func(context.Context) error
}

// Start opens the backend with tables plus the events table and builds
// the configured publisher. Call Close when done.
func Start(ctx context.Context, name string, cfg config.Config, tables ...store.Table) (*App, error) {
	logger := logging.New(name, cfg.LogLevel)
	a := &App{Name: name, Config: cfg, Logger: logger, Registry: prometheus.NewRegistry()}
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.Metrics = metrics.New(a.Registry)

	shutdownTracing, err := telemetry.Setup(ctx, name, cfg.OTLPEndpoint)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, shutdownTracing)

	opened, err := backend.Open(ctx, cfg.Store, logger, append(tables, gateway.EventsTable)...)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Store = opened
	a.closers = append(a.closers, func(context.Context) error { return opened.Close() })

	// the store publisher writes through the raw backend so each publish
	// meets the injector once, at the publisher wrapper
	raw := opened.Backend
	if faults := faultsFrom(cfg.Chaos); faults.Enabled() {
		logger.Warn("chaos enabled", "blast_radius", faults.BlastRadius, "fail_rate", faults.FailRate, "latency", faults.Latency)
		a.Injector = chaos.NewInjector(faults)
		opened.Backend = chaos.WrapBackend(raw, a.Injector)
	}

	pub, closePub, err := gateway.Open(ctx, cfg.Publisher, gateway.Deps{
		Backend: raw,
		DB:      opened.DB,
		Logger:  logger,
		Metrics: a.Metrics,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	if a.Injector != nil {
		pub = chaos.WrapPublisher(pub, a.Injector)
	}
	a.Publisher = pub
	a.closers = append(a.closers, func(context.Context) error { return closePub() })
	return a, nil
}

func faultsFrom(c config.Chaos) chaos.Faults {
	return chaos.Faults{
		BlastRadius: c.BlastRadius,
		FailRate:    c.FailRate,
		Latency:     c.Latency,
		Seed:        uint64(time.Now().UnixNano()),
	}
}

// Router returns a chi router with the common middleware plus the
// health and metrics endpoints.
func (a *App) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))
	return r
}

// Serve runs h on the configured port until ctx ends or a signal arrives.
func (a *App) Serve(ctx context.Context, h http.Handler) error {
	return server.Run(ctx, server.New(":"+a.Config.Port, h), a.Logger)
}

// Close releases everything Start opened, last opened first.
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	a.closers = nil
	return errors.Join(errs...)
}
