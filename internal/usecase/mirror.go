package usecase

import (
	"context"
	"fmt"
	"launcher/internal/config"
	"launcher/internal/domain"
	"launcher/internal/metrics"
	"log/slog"
	"time"
)

// MirrorUseCase обновляет офлайн-снимок: загружает config.json и news.json с сервера
// и сохраняет их в офлайн-хранилище. Сохраняются только успешные ответы (200 и корректный JSON),
// поэтому офлайн-данные никогда не заменяются ответом об ошибке.
type MirrorUseCase struct {
	fetcher Fetcher
	store   OfflineWriter
	urls    map[string]string
	log     *slog.Logger
}

func NewMirrorUseCase(fetcher Fetcher, store OfflineWriter, endpoints config.Endpoints, log *slog.Logger) *MirrorUseCase {
	return &MirrorUseCase{
		fetcher: fetcher,
		store:   store,
		urls: map[string]string{
			domain.ResourceConfig: endpoints.Config,
			domain.ResourceNews:   endpoints.News,
		},
		log: log.With(slog.String("component", "offline-mirror")),
	}
}

// Documents возвращает имена зеркалируемых документов.
func (uc *MirrorUseCase) Documents() []string {
	return []string{domain.ResourceConfig, domain.ResourceNews}
}

// Mirror загружает один документ и сохраняет его в офлайн-хранилище.
func (uc *MirrorUseCase) Mirror(ctx context.Context, name string) error {
	start := time.Now()
	url, ok := uc.urls[name]
	if !ok {
		return fmt.Errorf("unknown offline document %q", name)
	}
	log := uc.log.With(slog.String("document", name), slog.String("url", url))

	body, err := uc.fetcher.Fetch(ctx, url)
	if err != nil {
		metrics.MirrorTotal.WithLabelValues(name, "fetch_error").Inc()
		return fmt.Errorf("fetch failed for %s: %w", name, err)
	}
	if err := validateDocument(name, body); err != nil {
		metrics.MirrorTotal.WithLabelValues(name, "invalid").Inc()
		return fmt.Errorf("validation failed for %s: %w", name, err)
	}
	if err := uc.store.Save(ctx, name, body); err != nil {
		metrics.MirrorTotal.WithLabelValues(name, "save_error").Inc()
		return fmt.Errorf("save failed for %s: %w", name, err)
	}
	metrics.MirrorTotal.WithLabelValues(name, "ok").Inc()
	log.Info("Offline document mirrored",
		slog.Int("bytes", len(body)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// Seed копирует офлайн-документы из одного хранилища в другое.
// Используется для загрузки поставляемых файлов в Postgres.
func Seed(ctx context.Context, from OfflineStore, to OfflineWriter, names []string, log *slog.Logger) (int, error) {
	copied := 0
	for _, name := range names {
		body, err := from.Load(ctx, name)
		if err != nil {
			return copied, fmt.Errorf("load %s: %w", name, err)
		}
		if err := validateDocument(name, body); err != nil {
			return copied, fmt.Errorf("validate %s: %w", name, err)
		}
		if err := to.Save(ctx, name, body); err != nil {
			return copied, fmt.Errorf("save %s: %w", name, err)
		}
		log.Info("Offline document seeded", slog.String("document", name))
		copied++
	}
	return copied, nil
}

// validateDocument проверяет форму документа перед сохранением: config должен быть объектом,
// news - любым корректным JSON.
func validateDocument(name string, body []byte) error {
	if name == domain.ResourceConfig {
		_, err := decodeDocument(body)
		return err
	}
	_, err := decodeRaw(body)
	return err
}
