// Package service wires the storefront stores together. Stores are
// constructed once and passed by reference; there is no ambient singleton
// lookup anywhere below this layer.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/CursosTech/cursoteca/internal/adapter/outbound/memory"
	"github.com/CursosTech/cursoteca/internal/adapter/outbound/rest"
	"github.com/CursosTech/cursoteca/internal/adapter/outbound/sqlite"
	"github.com/CursosTech/cursoteca/internal/adapter/outbound/state"
	"github.com/CursosTech/cursoteca/internal/config"
	"github.com/CursosTech/cursoteca/internal/domain/cart"
	"github.com/CursosTech/cursoteca/internal/domain/catalog"
	"github.com/CursosTech/cursoteca/internal/domain/guard"
	"github.com/CursosTech/cursoteca/internal/domain/route"
	"github.com/CursosTech/cursoteca/internal/domain/session"
	"github.com/CursosTech/cursoteca/internal/port/outbound"
	"github.com/CursosTech/cursoteca/internal/telemetry"
)

// Version is the client version reported in traces and by the CLI.
const Version = "1.0.0"

// Storefront is the composition root: the three stores, the guarded route
// table and their shared collaborators.
type Storefront struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *telemetry.Metrics
	Storage outbound.Storage
	Catalog *catalog.Store
	Cart    *cart.Store
	Auth    *session.Store
	Routes  *route.Table

	shutdownTracer func(context.Context) error
}

// New builds a fully wired storefront from configuration. Passing a nil
// registerer disables metrics.
func New(cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (*Storefront, error) {
	if logger == nil {
		logger = slog.Default()
	}

	storage, err := openStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	var metrics *telemetry.Metrics
	if reg != nil {
		metrics = telemetry.NewMetrics(reg)
	}

	clientOpts := []rest.Option{
		rest.WithTimeout(cfg.Catalog.Timeout),
		rest.WithLogger(logger),
	}
	var shutdownTracer func(context.Context) error
	if cfg.Tracing.Enabled {
		tracer, shutdown, err := telemetry.InitTracer("cursoteca", Version)
		if err != nil {
			_ = storage.Close()
			return nil, err
		}
		shutdownTracer = shutdown
		clientOpts = append(clientOpts, rest.WithTracer(tracer))
	}
	client := rest.NewClient(cfg.Catalog.BaseURL, clientOpts...)

	routes := route.NewTable(logger)
	cartStore := cart.NewStore(storage, logger, metrics)
	authStore := session.NewStore(storage, routes, cartStore, logger, metrics)

	ev, err := guard.NewEvaluator()
	if err != nil {
		_ = storage.Close()
		return nil, err
	}
	userGuard, err := guard.NewUserGuard(ev, authStore, logger)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}
	adminGuard, err := guard.NewAdminGuard(ev, authStore, storage, logger)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	for _, r := range []route.Route{
		{Pattern: "/"},
		{Pattern: "/productos"},
		{Pattern: "/productos/{id}"},
		{Pattern: "/registrar"},
		{Pattern: "/iniciar-sesion"},
		{Pattern: "/cart", Guard: userGuard},
		{Pattern: "/admin/productos", Guard: adminGuard},
	} {
		routes.Register(r)
	}

	return &Storefront{
		Config:         cfg,
		Logger:         logger,
		Metrics:        metrics,
		Storage:        storage,
		Catalog:        catalog.NewStore(client, logger, metrics),
		Cart:           cartStore,
		Auth:           authStore,
		Routes:         routes,
		shutdownTracer: shutdownTracer,
	}, nil
}

// Close releases the storage backend and flushes pending trace spans.
func (s *Storefront) Close(ctx context.Context) error {
	var firstErr error
	if s.shutdownTracer != nil {
		if err := s.shutdownTracer(ctx); err != nil {
			firstErr = err
		}
	}
	if err := s.Storage.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func openStorage(cfg *config.Config, logger *slog.Logger) (outbound.Storage, error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		return sqlite.Open(cfg.Storage.Path, logger)
	case "memory":
		return memory.NewStore(), nil
	case "file", "":
		return state.NewFileStore(cfg.Storage.Path, logger), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
