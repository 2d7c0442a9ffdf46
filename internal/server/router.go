// Package server wires the octosync-server HTTP API: chi router, middleware
// chain and the HTTP server lifecycle.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/iudanet/octosync/internal/server/handlers"
	"github.com/iudanet/octosync/internal/server/middleware"
)

// HealthPath - путь health check, исключается из логов запросов
const HealthPath = "/api/v1/health"

// Storage объединяет операции с записями и проверку базы данных
type Storage interface {
	handlers.RecordStorage
	Ping(ctx context.Context) error
}

// RouterConfig содержит зависимости HTTP API
type RouterConfig struct {
	Storage     Storage
	Logger      *slog.Logger
	RateLimiter *middleware.RateLimiter // nil - без ограничения частоты
	JWT         handlers.JWTConfig
	Version     string
}

// NewRouter constructs the HTTP handler of the records API.
//
// Routes:
//
//	GET    /api/v1/health
//	GET    /api/v1/collections/{collection}/records
//	POST   /api/v1/collections/{collection}/records
//	PUT    /api/v1/collections/{collection}/records
//	GET    /api/v1/collections/{collection}/records/{id}
//	DELETE /api/v1/collections/{collection}/records/{id}
//
// Middleware chain: recovery, request logging, then for collection routes
// bearer auth, rate limit, collection scope.
func NewRouter(cfg RouterConfig) http.Handler {
	records := handlers.NewRecordsHandler(cfg.Logger, cfg.Storage)
	health := handlers.NewHealthHandler(cfg.Logger, cfg.Storage, cfg.Version)

	r := chi.NewRouter()
	r.Use(middleware.RecoveryMiddleware(cfg.Logger))
	r.Use(middleware.LoggingMiddleware(cfg.Logger, HealthPath))

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Get("/health", health.Health)

		// Protected group: requires valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.Logger, cfg.JWT))
			if cfg.RateLimiter != nil {
				r.Use(cfg.RateLimiter.Middleware())
			}

			r.Route("/collections/{"+handlers.CollectionParam+"}/records", func(r chi.Router) {
				r.Use(middleware.CollectionScopeMiddleware(cfg.Logger))

				r.Get("/", records.List)
				r.Get("/{"+handlers.IDParam+"}", records.Get)
				r.Delete("/{"+handlers.IDParam+"}", records.Delete)

				// Only allow requests with Content-Type: application/json
				r.With(chiMiddleware.AllowContentType("application/json")).Post("/", records.Create)
				r.With(chiMiddleware.AllowContentType("application/json")).Put("/", records.Upsert)
			})
		})
	})

	return r
}
