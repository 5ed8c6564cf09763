package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/handler"
	"github.com/dukerupert/vendora/internal/router"
)

// RegisterSystemRoutes registers health, metrics and the JSON 404 fallback.
func RegisterSystemRoutes(r *router.Router, deps SystemDeps) {
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if deps.HealthCheck != nil {
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()
			if err := deps.HealthCheck(ctx); err != nil {
				handler.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		handler.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if deps.MetricsHandler != nil {
		r.Handle(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		handler.ErrorResponse(w, req, domain.Errorf(domain.ENOTFOUND, "", "Route not found"))
	})
}
