package parser

import (
	"context"
	"fmt"
	"io"
	"launcher/internal/config"
	"launcher/internal/domain"
	"log/slog"
)

// Parser преобразует RSS-документ в список новостей лаунчера.
type Parser interface {
	Parse(ctx context.Context, reader io.Reader) ([]domain.NewsItem, error)
}

// New возвращает реализацию парсера по имени из launcher.rss_parser.
func New(name string, log *slog.Logger) (Parser, error) {
	switch name {
	case config.ParserXML, "":
		return NewXMLParser(log), nil
	case config.ParserGofeed:
		return NewGofeedParser(log), nil
	default:
		return nil, fmt.Errorf("unknown rss parser %q", name)
	}
}
