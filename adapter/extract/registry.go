// Package extract holds the per-format article extractors.
package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"newsingest/domain"
)

// Registry maps each source kind to its extractor.
type Registry struct {
	byKind map[domain.ExtractorKind]domain.Extractor
}

// NewRegistry returns a registry with the html and rss extractors.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{byKind: map[domain.ExtractorKind]domain.Extractor{
		domain.KindHTML: NewHTMLExtractor(logger),
		domain.KindRSS:  NewRSSExtractor(logger),
	}}
}

func (r *Registry) For(kind domain.ExtractorKind) (domain.Extractor, error) {
	e, ok := r.byKind[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownExtractor, kind)
	}
	return e, nil
}

// keep reports whether a raw item has everything needed to become an article.
func keep(a domain.RawArticle) bool {
	if a.Title == "" {
		return false
	}
	link := strings.TrimSpace(a.Link)
	if link == "" || link == noLink {
		return false
	}
	return a.RawTime != domain.NoTimeFound
}
