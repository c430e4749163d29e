package extract

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"newsingest/domain"
)

// ancestorDepth is how many levels, starting at the heading itself, are
// searched for a nested <time> element.
const ancestorDepth = 5

// HTMLExtractor reads article listings from rendered pages: every h2/h3
// holding a link is a candidate article.
type HTMLExtractor struct {
	logger *slog.Logger
}

func NewHTMLExtractor(logger *slog.Logger) *HTMLExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTMLExtractor{logger: logger}
}

func (e *HTMLExtractor) Extract(body, source string) []domain.RawArticle {
	candidates := e.scan(body, source)
	out := make([]domain.RawArticle, 0, len(candidates))
	for _, c := range candidates {
		if !keep(c) {
			e.logger.Debug("skipping listing item", "source", source, "title", c.Title, "link", c.Link, "time", c.RawTime)
			continue
		}
		out = append(out, c)
	}
	return out
}

// scan returns every heading link with the time text found for it, or
// NoTimeFound.
func (e *HTMLExtractor) scan(body, source string) []domain.RawArticle {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		e.logger.Warn("could not parse listing page", "source", source, "error", err)
		return nil
	}

	var out []domain.RawArticle
	doc.Find("h2, h3").Each(func(_ int, heading *goquery.Selection) {
		link := heading.Find("a[href]").First()
		if link.Length() == 0 {
			return
		}
		href, _ := link.Attr("href")
		out = append(out, domain.RawArticle{
			Title:   collapse(link.Text()),
			Link:    strings.TrimSpace(href),
			RawTime: findTime(heading),
		})
	})
	return out
}

func findTime(heading *goquery.Selection) string {
	current := heading
	for i := 0; i < ancestorDepth && current.Length() > 0; i++ {
		if t := current.Find("time").First(); t.Length() > 0 {
			return timeText(t)
		}
		current = current.Parent()
	}

	// Last lookup: the parent's following siblings. The ancestor walk above
	// already contains them in any parsed document, so this rarely decides.
	for sib := heading.Parent().Next(); sib.Length() > 0; sib = sib.Next() {
		if t := sib.Find("time").First(); t.Length() > 0 {
			return timeText(t)
		}
	}
	return domain.NoTimeFound
}

// timeText prefers the visible text and falls back to the datetime attribute.
func timeText(t *goquery.Selection) string {
	if text := collapse(t.Text()); text != "" {
		return text
	}
	if dt, ok := t.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
		return strings.TrimSpace(dt)
	}
	return domain.NoTimeFound
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
