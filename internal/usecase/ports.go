package usecase

import (
	"context"
	"io"
	"launcher/internal/domain"
)

// Fetcher определяет интерфейс HTTP-загрузки ресурсов лаунчера.
// Get возвращает ответ с любым статусом, Fetch требует статус 200.
type Fetcher interface {
	Get(ctx context.Context, url string) (*domain.HTTPResponse, error)
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// NewsParser преобразует RSS-документ в список новостей.
// Реализация XML-библиотеки скрыта за этим интерфейсом и может быть заменена.
type NewsParser interface {
	Parse(ctx context.Context, reader io.Reader) ([]domain.NewsItem, error)
}

// OfflineStore предоставляет офлайн-документы, поставляемые с лаунчером.
type OfflineStore interface {
	Load(ctx context.Context, name string) ([]byte, error)
}

// OfflineWriter сохраняет офлайн-документы.
type OfflineWriter interface {
	Save(ctx context.Context, name string, body []byte) error
}
