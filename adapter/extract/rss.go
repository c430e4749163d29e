package extract

import (
	"log/slog"
	"strings"

	"github.com/mmcdole/gofeed"

	"newsingest/domain"
)

// noLink is the placeholder some feeds emit instead of a URL.
const noLink = "No Link"

// RSSExtractor reads feed items. gofeed matches element names without
// regard to case, so pubDate and pubdate are both found.
type RSSExtractor struct {
	logger *slog.Logger
}

func NewRSSExtractor(logger *slog.Logger) *RSSExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &RSSExtractor{logger: logger}
}

func (e *RSSExtractor) Extract(body, source string) []domain.RawArticle {
	feed, err := gofeed.NewParser().ParseString(body)
	if err != nil {
		e.logger.Warn("could not parse feed", "source", source, "error", err)
		return nil
	}

	out := make([]domain.RawArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		raw := itemToRaw(item)
		if !keep(raw) {
			e.logger.Debug("skipping feed item", "source", source, "title", raw.Title, "link", raw.Link, "time", raw.RawTime)
			continue
		}
		out = append(out, raw)
	}
	return out
}

func itemToRaw(item *gofeed.Item) domain.RawArticle {
	link := strings.TrimSpace(item.Link)
	if link == "" {
		link = strings.TrimSpace(item.GUID)
	}
	published := strings.TrimSpace(item.Published)
	if published == "" {
		published = domain.NoTimeFound
	}
	return domain.RawArticle{
		Title:   strings.TrimSpace(item.Title),
		Link:    link,
		RawTime: published,
	}
}
