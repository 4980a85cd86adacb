package http

import (
	"context"
	"encoding/json"
	"errors"
	"launcher/internal/domain"
	"log/slog"
	"net/http"
)

type contentService interface {
	GetConfig(ctx context.Context) (domain.Document, error)
	GetInstanceList(ctx context.Context) []domain.Instance
	GetNews(ctx context.Context) (domain.News, error)
}

type Handler struct {
	log     *slog.Logger
	service contentService
}

func NewHandler(log *slog.Logger, service contentService) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// getConfig - хендлер для эндпоинта GET /api/config
func (h *Handler) getConfig(w http.ResponseWriter, r *http.Request) {
	log := h.requestLog(r, "transport.http/getConfig")
	cfg, err := h.service.GetConfig(r.Context())
	if err != nil {
		h.respondWithServiceError(w, log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, cfg)
}

// getInstances - хендлер для эндпоинта GET /api/instances.
// Всегда отвечает 200: при недоступности сервера список пуст.
func (h *Handler) getInstances(w http.ResponseWriter, r *http.Request) {
	instances := h.service.GetInstanceList(r.Context())
	respondWithJSON(w, http.StatusOK, instances)
}

// getNews - хендлер для эндпоинта GET /api/news
func (h *Handler) getNews(w http.ResponseWriter, r *http.Request) {
	log := h.requestLog(r, "transport.http/getNews")
	news, err := h.service.GetNews(r.Context())
	if err != nil {
		h.respondWithServiceError(w, log, err)
		return
	}
	w.Header().Set("X-Content-Source", string(news.Source))
	respondWithJSON(w, http.StatusOK, news)
}

// healthCheck - хендлер для проверки состояния сервиса
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) requestLog(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", getRequestID(r.Context())),
	)
}

// respondWithServiceError переводит ошибку сервиса в HTTP-ответ:
// недоступность ресурса - 503 с текстом ошибки, остальное - 500.
func (h *Handler) respondWithServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	var unavailable *domain.UnavailableError
	if errors.As(err, &unavailable) {
		log.Warn("Resource unavailable", slog.String("resource", unavailable.Resource), slog.Any("error", err))
		respondWithError(w, http.StatusServiceUnavailable, unavailable.Message)
		return
	}
	log.Error("Request failed", slog.Any("error", err))
	respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
}

// Вспомогательные функции для ответов
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
