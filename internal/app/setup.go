// Package app contains the application setup for the catalog service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/catalogsvc/catalog/internal/config"
	"github.com/catalogsvc/catalog/internal/service"
	"github.com/catalogsvc/catalog/internal/store"
	"github.com/catalogsvc/catalog/internal/transport/rest"
	"github.com/catalogsvc/catalog/pkg/server"
	"github.com/catalogsvc/catalog/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const serviceName = "catalog"

type Dependencies struct {
	Catalog   service.CatalogService
	Logger    *slog.Logger
	AuthToken string
}

// SetupDependencies wires the in-memory store (seeded with the startup
// records) into the catalog service. The store is owned here and handed to
// the service by reference; nothing else holds ambient state.
func SetupDependencies(logger *slog.Logger, authToken string) *Dependencies {
	catalog := service.NewService(store.NewMemoryStore(store.SeedProducts()...))

	return &Dependencies{
		Catalog:   catalog,
		Logger:    logger,
		AuthToken: authToken,
	}
}

// SetupHttpHandler initializes the HTTP routes and middleware for the
// catalog service. Tests use it to run the fully wired handler in-memory.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)

	registry := prometheus.NewRegistry()
	metrics := web.NewMetrics(registry)
	mux.Use(metrics.Middleware(serviceName))
	mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the catalog service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	auth := web.BearerAuth(deps.AuthToken, deps.Logger)
	catalogHandler := rest.NewHandler(deps.Catalog, deps.Logger)
	catalogHandler.RegisterRoutes(mux, auth)
}

// SetupHttpServer creates and configures an HTTP server for the catalog service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
