package domain

import (
	"context"
	"net/http"
)

// ArticleStore is the persistence port for articles.
type ArticleStore interface {
	Ensure(ctx context.Context) error
	Reset(ctx context.Context) error
	Upsert(ctx context.Context, a Article) (UpsertResult, error)
	GetAll(ctx context.Context) ([]Article, error)
	GetLatest(ctx context.Context, limit int) ([]Article, error)
}

// Fetcher downloads a page or feed body.
type Fetcher interface {
	Fetch(ctx context.Context, url string, headers http.Header) (string, error)
}

// Extractor turns a fetched body into raw article records. It never fails:
// malformed items are skipped and a malformed document yields no records.
type Extractor interface {
	Extract(body, source string) []RawArticle
}

// Publisher announces newly inserted articles.
type Publisher interface {
	Publish(ctx context.Context, a Article) error
}
