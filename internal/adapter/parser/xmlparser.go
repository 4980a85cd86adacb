package parser

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"launcher/internal/domain"
	"log/slog"
	"strings"

	"golang.org/x/net/html/charset"
)

const (
	contentNamespace    = "http://purl.org/rss/1.0/modules/content/"
	dublinCoreNamespace = "http://purl.org/dc/elements/1.1/"
)

type rssXML struct {
	XMLName xml.Name    `xml:"rss"`
	Channel *channelXML `xml:"channel"`
}
type channelXML struct {
	Items []itemXML `xml:"item"`
}

// itemXML хранит все дочерние элементы item, нужные поля выбираются по полному имени:
// title и pubDate без префикса, content:encoded и dc:creator по URI или префиксу.
type itemXML struct {
	Children []childXML `xml:",any"`
}
type childXML struct {
	XMLName xml.Name
	Text    string `xml:",chardata"`
}

func (it itemXML) field(local string, spaces ...string) string {
	for _, c := range it.Children {
		if c.XMLName.Local != local {
			continue
		}
		for _, space := range spaces {
			if c.XMLName.Space == space {
				return strings.TrimSpace(c.Text)
			}
		}
	}
	return ""
}

// newsItem собирает новость; defaultSpace - пространство имен по умолчанию корня rss, если оно объявлено.
func (it itemXML) newsItem(defaultSpace string) domain.NewsItem {
	return domain.NewsItem{
		Title:       it.field("title", "", defaultSpace),
		Content:     it.field("encoded", contentNamespace, "content"),
		Author:      it.field("creator", dublinCoreNamespace, "dc"),
		PublishDate: it.field("pubDate", "", defaultSpace),
	}
}

// XMLParser разбирает RSS 2.0 ленту средствами encoding/xml.
type XMLParser struct {
	log *slog.Logger
}

func NewXMLParser(log *slog.Logger) *XMLParser {
	return &XMLParser{
		log: log.With(slog.String("component", "rss-parser"), slog.String("parser", "xml")),
	}
}

// Parse декодирует документ и возвращает новости из rss.channel.item.
// Документ без rss.channel.item считается некорректным (domain.ErrMalformedResponse).
func (p *XMLParser) Parse(ctx context.Context, reader io.Reader) ([]domain.NewsItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rss rssXML
	decoder := xml.NewDecoder(reader)
	decoder.CharsetReader = charset.NewReaderLabel
	if err := decoder.Decode(&rss); err != nil {
		p.log.Warn("Error decoding XML", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to decode XML: %v", domain.ErrMalformedResponse, err)
	}
	if rss.Channel == nil || len(rss.Channel.Items) == 0 {
		return nil, fmt.Errorf("%w: invalid RSS structure: no rss.channel.item", domain.ErrMalformedResponse)
	}
	items := make([]domain.NewsItem, 0, len(rss.Channel.Items))
	for _, it := range rss.Channel.Items {
		items = append(items, it.newsItem(rss.XMLName.Space))
	}
	p.log.Debug("RSS parsed", slog.Int("items_found", len(items)))
	return items, nil
}
