package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"newsingest/domain"
)

// SourceIngester runs the pipeline for a single source.
type SourceIngester interface {
	Run(ctx context.Context, src domain.Source) (int, error)
}

// SourceResult is the outcome of ingesting one source.
type SourceResult struct {
	Source   domain.Source
	Inserted int
	Err      error
}

// Runner ingests many sources, at most Workers at a time. One source
// failing never stops the others.
type Runner struct {
	ingester SourceIngester
	logger   *slog.Logger

	mu      sync.Mutex
	workers int
}

func NewRunner(ingester SourceIngester, workers int, logger *slog.Logger) *Runner {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{ingester: ingester, workers: workers, logger: logger}
}

func (r *Runner) Resize(workers int) error {
	if workers <= 0 {
		return errors.New("workers must be > 0")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workers = workers
	return nil
}

func (r *Runner) CurrentWorkers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.workers
}

// Run returns one result per source, in input order.
func (r *Runner) Run(ctx context.Context, sources []domain.Source) []SourceResult {
	results := make([]SourceResult, len(sources))

	var g errgroup.Group
	g.SetLimit(r.CurrentWorkers())
	for i, src := range sources {
		g.Go(func() error {
			results[i] = r.runOne(ctx, src)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (r *Runner) runOne(ctx context.Context, src domain.Source) (res SourceResult) {
	res.Source = src
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("source ingestion panicked", "source", src.Name, "panic", p)
			res.Err = errors.New("ingestion panicked")
		}
	}()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	res.Inserted, res.Err = r.ingester.Run(ctx, src)
	if res.Err != nil {
		r.logger.Warn("source failed", "source", src.Name, "inserted", res.Inserted, "error", res.Err)
	}
	return res
}

// Total sums the inserted counts.
func Total(results []SourceResult) int {
	n := 0
	for _, r := range results {
		n += r.Inserted
	}
	return n
}
