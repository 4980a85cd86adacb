package fetcher

import (
	"context"
	"fmt"
	"io"
	"launcher/internal/domain"
	"log/slog"
	"net/http"
	"time"
)

// maxBodySize ограничивает размер тела ответа, читаемого в память.
const maxBodySize = 16 << 20

// HTTPFetcher выполняет GET-запросы к серверу лаунчера и RSS-лентам.
// Содержит HTTP-клиент с таймаутом и логгер для записи событий.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	log       *slog.Logger
}

// NewHTTPFetcher создает новый экземпляр HTTPFetcher.
// Нулевой timeout означает отсутствие ограничения на время запроса.
func NewHTTPFetcher(log *slog.Logger, timeout time.Duration, userAgent string) *HTTPFetcher {
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		log:       log.With(slog.String("component", "fetcher")),
	}
}

// Get выполняет HTTP GET и возвращает ответ с любым статусом.
// Ошибка возвращается только при сбое сети или чтения тела и оборачивает domain.ErrTransport.
func (f *HTTPFetcher) Get(ctx context.Context, url string) (*domain.HTTPResponse, error) {
	log := f.log.With(slog.String("url", url))
	log.Debug("Fetching URL")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Error("Failed to create HTTP request", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to create request for url %s: %v", domain.ErrTransport, url, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		log.Warn("HTTP request failed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to fetch url %s: %v", domain.ErrTransport, url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		log.Warn("Failed to read response body", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to read body of %s: %v", domain.ErrTransport, url, err)
	}
	log.Debug("Fetched URL",
		slog.Int("status_code", resp.StatusCode),
		slog.Int("bytes", len(body)),
	)
	return &domain.HTTPResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// Fetch выполняет HTTP GET и требует статус 200.
// Любой другой статус считается сетевой ошибкой (domain.ErrTransport).
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		f.log.Warn("Unexpected status code",
			slog.String("url", url),
			slog.Int("status_code", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: unexpected status code: %d for url %s", domain.ErrTransport, resp.StatusCode, url)
	}
	return resp.Body, nil
}
