// Package httpapi assembles the public HTTP surface: feature handlers, shared
// middleware, and the operational endpoints.
package httpapi

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authHandler "taskbox/internal/auth/handler"
	"taskbox/internal/platform/metrics"
	"taskbox/internal/platform/middleware"
	"taskbox/internal/platform/postgres"
	todoHandler "taskbox/internal/todo/handler"
	"taskbox/internal/transport/http/shared"
)

// Deps carries everything the router needs. DB is nil when the service runs
// on in-memory stores; healthz then reports ok without a ping.
type Deps struct {
	Auth    *authHandler.Handler
	Todos   *todoHandler.Handler
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	DB      *sql.DB
}

// NewRouter wires all public endpoints behind the shared middleware chain.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.Latency(deps.Metrics))

	deps.Auth.Register(r)
	deps.Todos.Register(r)

	r.Get("/healthz", handleHealthz(deps.DB))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func handleHealthz(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := postgres.Health(r.Context(), db); err != nil {
				shared.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unavailable",
				})
				return
			}
		}
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
