package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"newsingest/domain"
)

const createArticles = `
CREATE TABLE IF NOT EXISTS articles (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    link TEXT NOT NULL,
    "time" TIMESTAMPTZ,
    source TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS articles_time_idx ON articles ("time" DESC);
`

const (
	insertArticle = `INSERT INTO articles (id, title, link, "time", source) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING`
	selectAll     = `SELECT id, title, link, "time", source FROM articles`
	selectLatest  = `SELECT id, title, link, "time", source FROM articles WHERE "time" IS NOT NULL ORDER BY "time" DESC, id LIMIT $1`
)

// Repository stores articles in PostgreSQL. The primary key on id makes
// Upsert idempotent under concurrent writers.
type Repository struct{ db *sql.DB }

func New(db *sql.DB) *Repository { return &Repository{db: db} }

// Ensure creates the articles table when it does not exist yet.
func (r *Repository) Ensure(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createArticles); err != nil {
		return fmt.Errorf("%w: ensure schema: %v", domain.ErrStorage, err)
	}
	return nil
}

// Reset drops and recreates the articles table.
func (r *Repository) Reset(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: reset: %v", domain.ErrStorage, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS articles`); err != nil {
		return fmt.Errorf("%w: drop articles: %v", domain.ErrStorage, err)
	}
	if _, err := tx.ExecContext(ctx, createArticles); err != nil {
		return fmt.Errorf("%w: create articles: %v", domain.ErrStorage, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: reset commit: %v", domain.ErrStorage, err)
	}
	return nil
}

func (r *Repository) Upsert(ctx context.Context, a domain.Article) (domain.UpsertResult, error) {
	var published sql.NullTime
	if a.PublishedAt != nil {
		published = sql.NullTime{Time: a.PublishedAt.UTC(), Valid: true}
	}
	res, err := r.db.ExecContext(ctx, insertArticle, a.ID, a.Title, a.Link, published, a.Source)
	if err != nil {
		return 0, fmt.Errorf("%w: insert article %s: %v", domain.ErrStorage, a.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: insert article %s: %v", domain.ErrStorage, a.ID, err)
	}
	if n == 0 {
		return domain.AlreadyExists, nil
	}
	return domain.Inserted, nil
}

func (r *Repository) GetAll(ctx context.Context) ([]domain.Article, error) {
	return scanArticles(r.db.QueryContext(ctx, selectAll))
}

func (r *Repository) GetLatest(ctx context.Context, limit int) ([]domain.Article, error) {
	if limit <= 0 {
		return nil, nil
	}
	return scanArticles(r.db.QueryContext(ctx, selectLatest, limit))
}

func scanArticles(rows *sql.Rows, err error) ([]domain.Article, error) {
	if err != nil {
		return nil, fmt.Errorf("%w: query articles: %v", domain.ErrStorage, err)
	}
	defer rows.Close()
	var out []domain.Article
	for rows.Next() {
		var (
			a         domain.Article
			published sql.NullTime
		)
		if err := rows.Scan(&a.ID, &a.Title, &a.Link, &published, &a.Source); err != nil {
			return nil, fmt.Errorf("%w: scan article: %v", domain.ErrStorage, err)
		}
		if published.Valid {
			t := published.Time.UTC()
			a.PublishedAt = &t
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read articles: %v", domain.ErrStorage, err)
	}
	return out, nil
}
