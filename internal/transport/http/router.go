// Package httptransport assembles the HTTP surface: middleware chain, health
// and metrics endpoints, and the analysis API.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	analysishandler "authscript/internal/analysis/handler"
	"authscript/pkg/platform/middleware/requestid"
	"authscript/pkg/platform/middleware/requesttime"
)

// NewRouter wires the middleware chain and all public endpoints. A nil
// authMiddleware leaves the analysis API unauthenticated (dev mode).
func NewRouter(analysis *analysishandler.Handler, authMiddleware func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}
		analysis.Register(r)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
