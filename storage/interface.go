package storage

import (
	"context"
	"launcher/internal/domain"
)

const (
	DocumentConfig = domain.ResourceConfig
	DocumentNews   = domain.ResourceNews
)

// OfflineStore определяет хранилище офлайн-документов лаунчера (config.json, news.json).
// Load возвращает содержимое документа по имени без расширения, Save заменяет его целиком.
// Отсутствующий или нечитаемый документ возвращает ошибку, оборачивающую domain.ErrOfflineRead.
type OfflineStore interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, body []byte) error
	Close()
}
