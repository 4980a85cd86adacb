package parser

import (
	"context"
	"fmt"
	"io"
	"launcher/internal/domain"
	"log/slog"
	"strings"

	"github.com/mmcdole/gofeed"
)

// GofeedParser разбирает RSS ленту через github.com/mmcdole/gofeed.
// Принимает только RSS; Atom и JSON Feed считаются некорректным ответом.
type GofeedParser struct {
	feedParser *gofeed.Parser
	log        *slog.Logger
}

func NewGofeedParser(log *slog.Logger) *GofeedParser {
	return &GofeedParser{
		feedParser: gofeed.NewParser(),
		log:        log.With(slog.String("component", "rss-parser"), slog.String("parser", "gofeed")),
	}
}

func (p *GofeedParser) Parse(ctx context.Context, reader io.Reader) ([]domain.NewsItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	feed, err := p.feedParser.Parse(reader)
	if err != nil {
		p.log.Warn("Error parsing feed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to parse feed: %v", domain.ErrMalformedResponse, err)
	}
	if feed.FeedType != "rss" {
		return nil, fmt.Errorf("%w: unexpected feed type %q", domain.ErrMalformedResponse, feed.FeedType)
	}
	if len(feed.Items) == 0 {
		return nil, fmt.Errorf("%w: invalid RSS structure: no rss.channel.item", domain.ErrMalformedResponse)
	}
	items := make([]domain.NewsItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		items = append(items, domain.NewsItem{
			Title:       strings.TrimSpace(it.Title),
			Content:     strings.TrimSpace(it.Content),
			Author:      author(it),
			PublishDate: strings.TrimSpace(it.Published),
		})
	}
	p.log.Debug("RSS parsed", slog.Int("items_found", len(items)))
	return items, nil
}

// author предпочитает dc:creator, как и XMLParser, и только затем автора из <author>.
func author(it *gofeed.Item) string {
	if it.DublinCoreExt != nil && len(it.DublinCoreExt.Creator) > 0 {
		return strings.TrimSpace(it.DublinCoreExt.Creator[0])
	}
	if it.Author != nil {
		return strings.TrimSpace(it.Author.Name)
	}
	return ""
}
