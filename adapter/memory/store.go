// Package memory is an ArticleStore kept in process memory, used for dry runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"newsingest/domain"
)

type Store struct {
	mu       sync.Mutex
	articles map[string]domain.Article
	order    []string
}

func New() *Store {
	return &Store{articles: make(map[string]domain.Article)}
}

func (s *Store) Ensure(context.Context) error { return nil }

func (s *Store) Reset(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = make(map[string]domain.Article)
	s.order = nil
	return nil
}

// Upsert keeps the first article stored under an id.
func (s *Store) Upsert(_ context.Context, a domain.Article) (domain.UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.articles[a.ID]; ok {
		return domain.AlreadyExists, nil
	}
	if a.PublishedAt != nil {
		t := a.PublishedAt.UTC()
		a.PublishedAt = &t
	}
	s.articles[a.ID] = a
	s.order = append(s.order, a.ID)
	return domain.Inserted, nil
}

func (s *Store) GetAll(context.Context) ([]domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Article, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.articles[id])
	}
	return out, nil
}

func (s *Store) GetLatest(_ context.Context, limit int) ([]domain.Article, error) {
	if limit <= 0 {
		return nil, nil
	}
	s.mu.Lock()
	var out []domain.Article
	for _, id := range s.order {
		if a := s.articles[id]; a.PublishedAt != nil {
			out = append(out, a)
		}
	}
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := *out[i].PublishedAt, *out[j].PublishedAt
		if ti.Equal(tj) {
			return out[i].ID < out[j].ID
		}
		return ti.After(tj)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
