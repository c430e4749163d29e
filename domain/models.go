package domain

import "time"

// NoTimeFound marks an item for which no time element or field was located.
const NoTimeFound = "No Time Found"

// ExtractorKind selects how a source's markup is turned into articles.
type ExtractorKind string

const (
	KindHTML ExtractorKind = "html"
	KindRSS  ExtractorKind = "rss"
)

// Source is one listing page or feed to ingest.
type Source struct {
	Name string
	URL  string
	Kind ExtractorKind
}

// Article is the persisted entity. PublishedAt is nil when the time could not be parsed.
type Article struct {
	ID          string
	Title       string
	Link        string
	PublishedAt *time.Time
	Source      string
}

// RawArticle is what an extractor finds in a document, before normalization.
type RawArticle struct {
	Title   string
	Link    string
	RawTime string
}

// UpsertResult reports whether Upsert stored a new row.
type UpsertResult int

const (
	Inserted UpsertResult = iota
	AlreadyExists
)

func (r UpsertResult) String() string {
	if r == Inserted {
		return "inserted"
	}
	return "already_exists"
}
