package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/config-status/{entityID}", func(r chi.Router) {
			r.Get("/", s.handleGetConfigStatus)
			r.Post("/publish", s.handlePublishConfigStatus)
		})

		r.Route("/metadata", func(r chi.Router) {
			r.Get("/", s.handleListMetadata)

			r.Route("/{namespace}/{item}", func(r chi.Router) {
				r.Get("/", s.handleGetMetadata)
				r.Put("/", s.handlePutMetadata)
				r.Delete("/", s.handleDeleteMetadata)
			})
		})

		r.Delete("/items/{item}/metadata", s.handleDeleteItemMetadata)

		r.Get(s.websocketPath(), s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}

// websocketPath returns the configured WebSocket route under /api/v1.
func (s *Server) websocketPath() string {
	if s.wsCfg.Path == "" {
		return "/ws"
	}
	return s.wsCfg.Path
}
