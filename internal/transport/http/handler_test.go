package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"launcher/internal/domain"
	"launcher/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	config    domain.Document
	configErr error
	instances []domain.Instance
	news      domain.News
	newsErr   error
}

func (f *fakeService) GetConfig(context.Context) (domain.Document, error) {
	return f.config, f.configErr
}

func (f *fakeService) GetInstanceList(context.Context) []domain.Instance {
	return f.instances
}

func (f *fakeService) GetNews(context.Context) (domain.News, error) {
	return f.news, f.newsErr
}

func newTestRouter(svc *fakeService) http.Handler {
	log := logger.Discard()
	return NewServer(log, NewHandler(log, svc))
}

func serve(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetConfig(t *testing.T) {
	router := newTestRouter(&fakeService{config: domain.Document{"rss": "https://example.com/feed"}})

	rec := serve(t, router, http.MethodGet, "/api/config")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"rss": "https://example.com/feed"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestGetConfig_Unavailable(t *testing.T) {
	router := newTestRouter(&fakeService{configErr: domain.NewUnavailableError(domain.ResourceConfig, errors.New("missing"))})

	rec := serve(t, router, http.MethodGet, "/api/config")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error": "Unable to load config.json online or offline"}`, rec.Body.String())
}

func TestGetConfig_InternalError(t *testing.T) {
	router := newTestRouter(&fakeService{configErr: errors.New("unexpected")})

	rec := serve(t, router, http.MethodGet, "/api/config")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetInstances(t *testing.T) {
	router := newTestRouter(&fakeService{instances: []domain.Instance{
		{"name": "survival", "whitelistActive": false},
		{"name": "creative"},
	}})

	rec := serve(t, router, http.MethodGet, "/api/instances")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "survival", got[0]["name"])
	assert.Equal(t, "creative", got[1]["name"])
}

func TestGetInstances_Empty(t *testing.T) {
	router := newTestRouter(&fakeService{instances: []domain.Instance{}})

	rec := serve(t, router, http.MethodGet, "/api/instances")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `[]`, rec.Body.String())
}

func TestGetNews(t *testing.T) {
	tests := []struct {
		name       string
		news       domain.News
		wantBody   string
		wantSource string
	}{
		{
			name:       "rss items",
			news:       domain.News{Source: domain.SourceRSS, Items: []domain.NewsItem{{Title: "Patch", Author: "Luuxis"}}},
			wantBody:   `[{"title":"Patch","content":"","author":"Luuxis","publish_date":""}]`,
			wantSource: "rss",
		},
		{
			name:       "offline document",
			news:       domain.News{Source: domain.SourceOffline, Raw: json.RawMessage(`{"custom": [1, 2]}`)},
			wantBody:   `{"custom": [1, 2]}`,
			wantSource: "offline",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeService{news: tt.news})

			rec := serve(t, router, http.MethodGet, "/api/news")

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, tt.wantSource, rec.Header().Get("X-Content-Source"))
		})
	}
}

func TestGetNews_Unavailable(t *testing.T) {
	router := newTestRouter(&fakeService{newsErr: domain.NewUnavailableError(domain.ResourceNews, nil)})

	rec := serve(t, router, http.MethodGet, "/api/news")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error": "Unable to load news.json online or offline"}`, rec.Body.String())
}

func TestHealthAndRouting(t *testing.T) {
	router := newTestRouter(&fakeService{})

	rec := serve(t, router, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())

	rec = serve(t, router, http.MethodPost, "/api/news")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = serve(t, router, http.MethodOptions, "/api/news")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serve(t, router, http.MethodGet, "/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, router, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDIsPropagated(t *testing.T) {
	router := newTestRouter(&fakeService{})
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(requestIDHeader, "client-id-1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, "client-id-1", rec.Header().Get(requestIDHeader))
}
