package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"newsingest/domain"
	"newsingest/internal/helper"
	"newsingest/internal/timeparse"
)

// ExtractorSource resolves the extractor for a source kind.
type ExtractorSource interface {
	For(kind domain.ExtractorKind) (domain.Extractor, error)
}

// Pipeline ingests one source: fetch, extract, normalize, hash, store.
type Pipeline struct {
	fetcher    domain.Fetcher
	extractors ExtractorSource
	store      domain.ArticleStore
	publisher  domain.Publisher
	times      *timeparse.Normalizer
	headers    http.Header
	logger     *slog.Logger
}

type Option func(*Pipeline)

// WithPublisher announces every newly inserted article.
func WithPublisher(p domain.Publisher) Option {
	return func(pl *Pipeline) { pl.publisher = p }
}

// WithNormalizer replaces the wall-clock time normalizer.
func WithNormalizer(n *timeparse.Normalizer) Option {
	return func(pl *Pipeline) { pl.times = n }
}

// WithHeaders adds request headers to every fetch.
func WithHeaders(h http.Header) Option {
	return func(pl *Pipeline) { pl.headers = h }
}

func WithLogger(l *slog.Logger) Option {
	return func(pl *Pipeline) { pl.logger = l }
}

func NewPipeline(fetcher domain.Fetcher, extractors ExtractorSource, store domain.ArticleStore, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher:    fetcher,
		extractors: extractors,
		store:      store,
		times:      timeparse.New(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run ingests src and returns how many new articles were stored. A fetch
// failure returns 0 and the error. Storage failures skip the article and
// are returned joined once every article has been tried.
func (p *Pipeline) Run(ctx context.Context, src domain.Source) (int, error) {
	log := p.logger.With("source", src.Name, "url", src.URL)

	extractor, err := p.extractors.For(src.Kind)
	if err != nil {
		log.Error("no extractor for source", "kind", src.Kind, "error", err)
		return 0, err
	}

	log.Info("fetching source")
	body, err := p.fetcher.Fetch(ctx, src.URL, p.headers)
	if err != nil {
		log.Warn("fetch failed", "error", err)
		return 0, err
	}

	raws := extractor.Extract(body, src.Name)
	if len(raws) == 0 {
		log.Info("no articles found")
		return 0, nil
	}

	var (
		inserted int
		errs     []error
	)
	for _, raw := range raws {
		article := p.build(raw, src.Name)
		if article.PublishedAt == nil {
			log.Debug("could not parse time", "link", raw.Link, "raw_time", raw.RawTime)
		}

		res, err := p.store.Upsert(ctx, article)
		if err != nil {
			log.Error("store article", "link", article.Link, "error", err)
			errs = append(errs, err)
			continue
		}
		log.Debug("article upserted", "id", article.ID, "link", article.Link, "result", res.String())
		if res == domain.AlreadyExists {
			continue
		}
		inserted++

		if p.publisher != nil {
			if err := p.publisher.Publish(ctx, article); err != nil {
				log.Warn("publish article", "id", article.ID, "error", err)
			}
		}
	}

	log.Info("source ingested", "found", len(raws), "inserted", inserted, "failed", len(errs))
	if len(errs) > 0 {
		return inserted, fmt.Errorf("%s: %d of %d articles not stored: %w", src.Name, len(errs), len(raws), errors.Join(errs...))
	}
	return inserted, nil
}

func (p *Pipeline) build(raw domain.RawArticle, source string) domain.Article {
	a := domain.Article{
		ID:     helper.DeriveID(raw.Link),
		Title:  raw.Title,
		Link:   raw.Link,
		Source: source,
	}
	if t, ok := p.times.ParseTimestamp(raw.RawTime); ok {
		a.PublishedAt = &t
	}
	return a
}
