package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewServer создает HTTP-роутер с эндпоинтами API и метрик.
// Порядок middleware: восстановление после паники, идентификатор запроса, CORS, логирование.
func NewServer(log *slog.Logger, h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(corsMiddleware)
	r.Use(loggingMiddleware(log))

	r.Route("/api", func(r chi.Router) {
		r.Get("/config", h.getConfig)
		r.Get("/instances", h.getInstances)
		r.Get("/news", h.getNews)
		r.Get("/health", h.healthCheck)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}
