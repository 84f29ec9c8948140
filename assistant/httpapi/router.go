// Package httpapi exposes the dispatcher over HTTP.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg Config, svc Service) http.Handler {
	h := &handler{svc: svc, maxBodyBytes: cfg.MaxBodyBytes}
	if h.maxBodyBytes <= 0 {
		h.maxBodyBytes = 1 << 20
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(accessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsHandler(cfg.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", h.healthz)

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
		r.Post("/analyze", h.analyze)
		r.Post("/recommend", h.recommend)
		r.Post("/summarize", h.summarize)
		r.Post("/chat", h.chat)
	})

	return r
}
