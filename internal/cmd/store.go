package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"newsingest/adapter/memory"
	"newsingest/adapter/postgres"
	"newsingest/domain"
	"newsingest/internal/config"
	"newsingest/internal/db"
	"newsingest/internal/logger"
	"newsingest/internal/timeparse"
)

// Stderr receives log output. Tests swap it out.
var Stderr io.Writer = os.Stderr

func loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger.New(cfg.LogLevel, Stderr), nil
}

// ErrStoreNotPersistent is returned by commands that read or reset stored
// articles when STORE_DRIVER=memory, where every process starts empty.
var ErrStoreNotPersistent = errors.New("the memory store does not persist between runs; set STORE_DRIVER=postgres")

func requirePersistentStore(cfg config.Config, command string) error {
	if cfg.StoreDriver == config.StoreMemory {
		return fmt.Errorf("%s: %w", command, ErrStoreNotPersistent)
	}
	return nil
}

// openStore returns the configured ArticleStore with its schema ensured,
// and a func that releases it.
func openStore(ctx context.Context, cfg config.Config) (domain.ArticleStore, func() error, error) {
	if cfg.StoreDriver == config.StoreMemory {
		return memory.New(), func() error { return nil }, nil
	}

	database, err := db.OpenDB(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	repo := postgres.New(database)
	if err := repo.Ensure(ctx); err != nil {
		_ = database.Close()
		return nil, nil, fmt.Errorf("db ensure failed: %w", err)
	}
	return repo, database.Close, nil
}

func printArticles(w io.Writer, arts []domain.Article) {
	for i, a := range arts {
		when := "unknown time"
		if a.PublishedAt != nil {
			when = timeparse.ToRelativeString(*a.PublishedAt)
		}
		fmt.Fprintf(w, "%d. [%s] %s\n   %s | %s\n\n", i+1, when, a.Title, a.Source, a.Link)
	}
}
