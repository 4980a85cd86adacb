package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"launcher/internal/config"
	"launcher/internal/domain"
	"launcher/internal/metrics"
	"log/slog"
	"strings"
)

// ConfigService отдает конфигурацию лаунчера, список инстансов и новости.
// Каждая операция сначала обращается к серверу лаунчера и при сбое переходит
// к следующему источнику. Сервис не хранит состояние между вызовами и не кэширует ответы.
type ConfigService struct {
	fetcher   Fetcher
	parser    NewsParser
	offline   OfflineStore
	endpoints config.Endpoints
	log       *slog.Logger
}

// NewConfigService создает сервис. endpoints вычисляются один раз при старте
// из конфигурации лаунчера (url и user).
func NewConfigService(
	fetcher Fetcher,
	parser NewsParser,
	offline OfflineStore,
	endpoints config.Endpoints,
	log *slog.Logger,
) *ConfigService {
	return &ConfigService{
		fetcher:   fetcher,
		parser:    parser,
		offline:   offline,
		endpoints: endpoints,
		log:       log.With(slog.String("component", "config-service")),
	}
}

// GetConfig загружает config.json с сервера лаунчера.
// Если сервер ответил не 200, недоступен или вернул не JSON-объект,
// читается офлайн config.json. Если не удалось и это, возвращается *domain.UnavailableError.
func (s *ConfigService) GetConfig(ctx context.Context) (domain.Document, error) {
	log := s.log.With(slog.String("op", "GetConfig"))

	doc, err := s.onlineConfig(ctx)
	if err == nil {
		metrics.FetchSourceTotal.WithLabelValues(domain.ResourceConfig, string(domain.SourceOnline)).Inc()
		return doc, nil
	}
	log.Warn("Falling back to offline config.json",
		slog.String("url", s.endpoints.Config),
		slog.Any("error", err),
	)
	metrics.FallbackTotal.WithLabelValues(domain.ResourceConfig, reason(err)).Inc()

	doc, err = s.offlineConfig(ctx)
	if err != nil {
		log.Error("Failed to load offline config.json", slog.Any("error", err))
		metrics.UnavailableTotal.WithLabelValues(domain.ResourceConfig).Inc()
		return nil, domain.NewUnavailableError(domain.ResourceConfig, err)
	}
	metrics.FetchSourceTotal.WithLabelValues(domain.ResourceConfig, string(domain.SourceOffline)).Inc()
	return doc, nil
}

func (s *ConfigService) onlineConfig(ctx context.Context) (domain.Document, error) {
	body, err := s.fetcher.Fetch(ctx, s.endpoints.Config)
	if err != nil {
		return nil, err
	}
	return decodeDocument(body)
}

func (s *ConfigService) offlineConfig(ctx context.Context) (domain.Document, error) {
	body, err := s.offline.Load(ctx, domain.ResourceConfig)
	if err != nil {
		return nil, err
	}
	doc, err := decodeDocument(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOfflineRead, err)
	}
	return doc, nil
}

// GetInstanceList загружает список инстансов из <base>/files.
// Ответ должен иметь content-type application/json и содержать JSON-объект.
// Офлайн-источника нет: при любой ошибке возвращается пустой список, ошибка только логируется.
func (s *ConfigService) GetInstanceList(ctx context.Context) []domain.Instance {
	log := s.log.With(slog.String("op", "GetInstanceList"))

	instances, err := s.onlineInstances(ctx, log)
	if err != nil {
		log.Error("Error fetching instance list",
			slog.String("url", s.endpoints.Instances),
			slog.Any("error", err),
		)
		metrics.FallbackTotal.WithLabelValues("instances", reason(err)).Inc()
		return []domain.Instance{}
	}
	metrics.FetchSourceTotal.WithLabelValues("instances", string(domain.SourceOnline)).Inc()
	log.Debug("Instance list fetched", slog.Int("count", len(instances)))
	return instances
}

func (s *ConfigService) onlineInstances(ctx context.Context, log *slog.Logger) ([]domain.Instance, error) {
	resp, err := s.fetcher.Get(ctx, s.endpoints.Instances)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(resp.ContentType, "application/json") {
		return nil, fmt.Errorf("%w: invalid content-type: %q", domain.ErrMalformedResponse, resp.ContentType)
	}
	return decodeInstances(resp.Body, log)
}

// GetNews возвращает новости лаунчера.
// Порядок источников: RSS-лента из поля rss конфигурации (если задано),
// затем news.json с сервера, затем офлайн news.json.
// Ошибка RSS-ветки не прерывает вызов, а переводит к news.json.
func (s *ConfigService) GetNews(ctx context.Context) (domain.News, error) {
	log := s.log.With(slog.String("op", "GetNews"))

	cfg, err := s.GetConfig(ctx)
	if err != nil {
		log.Warn("Config unavailable, continuing without RSS", slog.Any("error", err))
		cfg = domain.Document{}
	}

	if rssURL := cfg.RSS(); rssURL != "" {
		items, err := s.rssNews(ctx, rssURL)
		if err == nil {
			metrics.FetchSourceTotal.WithLabelValues(domain.ResourceNews, string(domain.SourceRSS)).Inc()
			return domain.News{Source: domain.SourceRSS, Items: items}, nil
		}
		log.Warn("Failed to load RSS feed, trying fallback news.json",
			slog.String("url", rssURL),
			slog.Any("error", err),
		)
		metrics.FallbackTotal.WithLabelValues("rss", reason(err)).Inc()
	}

	raw, err := s.onlineNews(ctx)
	if err == nil {
		metrics.FetchSourceTotal.WithLabelValues(domain.ResourceNews, string(domain.SourceOnline)).Inc()
		return domain.News{Source: domain.SourceOnline, Raw: raw}, nil
	}
	log.Warn("Falling back to offline news.json",
		slog.String("url", s.endpoints.News),
		slog.Any("error", err),
	)
	metrics.FallbackTotal.WithLabelValues(domain.ResourceNews, reason(err)).Inc()

	raw, err = s.offlineNews(ctx)
	if err != nil {
		log.Error("Failed to load offline news.json", slog.Any("error", err))
		metrics.UnavailableTotal.WithLabelValues(domain.ResourceNews).Inc()
		return domain.News{}, domain.NewUnavailableError(domain.ResourceNews, err)
	}
	metrics.FetchSourceTotal.WithLabelValues(domain.ResourceNews, string(domain.SourceOffline)).Inc()
	return domain.News{Source: domain.SourceOffline, Raw: raw}, nil
}

func (s *ConfigService) rssNews(ctx context.Context, url string) ([]domain.NewsItem, error) {
	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return s.parser.Parse(ctx, bytes.NewReader(body))
}

func (s *ConfigService) onlineNews(ctx context.Context) ([]byte, error) {
	body, err := s.fetcher.Fetch(ctx, s.endpoints.News)
	if err != nil {
		return nil, err
	}
	return decodeRaw(body)
}

func (s *ConfigService) offlineNews(ctx context.Context) ([]byte, error) {
	body, err := s.offline.Load(ctx, domain.ResourceNews)
	if err != nil {
		return nil, err
	}
	raw, err := decodeRaw(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOfflineRead, err)
	}
	return raw, nil
}

// reason возвращает метку причины перехода к следующему источнику.
func reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTransport):
		return "transport"
	case errors.Is(err, domain.ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, domain.ErrOfflineRead):
		return "offline"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "context"
	default:
		return "other"
	}
}
