package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"

	"newsingest/adapter/extract"
	"newsingest/adapter/httpfetch"
	"newsingest/adapter/redisqueue"
	"newsingest/app"
)

// Ingest fetches every enabled source once, stores new articles and prints
// the latest ones.
func Ingest(ctx context.Context, args []string, out io.Writer) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	fset := flag.NewFlagSet("ingest", flag.ContinueOnError)
	var workers, num int
	fset.IntVar(&workers, "workers", cfg.Workers, "number of sources fetched in parallel")
	fset.IntVar(&num, "num", cfg.LatestLimit, "number of latest articles to print (0 = none)")
	if err := fset.Parse(args); err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	fetcher := httpfetch.NewHTTPFetcher(httpfetch.Options{
		MaxAttempts: cfg.MaxAttempts,
		BaseBackoff: cfg.BaseBackoff,
		Timeout:     cfg.Timeout,
		UserAgent:   cfg.UserAgent,
	}, log)

	opts := []app.Option{
		app.WithLogger(log),
		app.WithHeaders(http.Header{"Accept-Language": []string{"en-US,en;q=0.9"}}),
	}
	if cfg.RedisAddr != "" {
		pub, err := redisqueue.Connect(ctx, cfg.RedisAddr, cfg.RedisQueue)
		if err != nil {
			log.Warn("redis unavailable, new articles will not be announced", "addr", cfg.RedisAddr, "error", err)
		} else {
			defer pub.Close()
			opts = append(opts, app.WithPublisher(pub))
		}
	}

	pipeline := app.NewPipeline(fetcher, extract.NewRegistry(log), store, opts...)
	runner := app.NewRunner(pipeline, cfg.Workers, log)
	if err := runner.Resize(workers); err != nil {
		return fmt.Errorf("invalid --workers: %w", err)
	}

	sources := cfg.EnabledSources()
	log.Info("ingestion started", "sources", len(sources), "workers", runner.CurrentWorkers())
	results := runner.Run(ctx, sources)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(out, "%s: %d new, error: %v\n", r.Source.Name, r.Inserted, r.Err)
			continue
		}
		fmt.Fprintf(out, "%s: %d new\n", r.Source.Name, r.Inserted)
	}
	fmt.Fprintf(out, "Total new articles: %d\n", app.Total(results))

	if num > 0 {
		latest, err := store.GetLatest(ctx, num)
		if err != nil {
			return fmt.Errorf("could not load latest articles: %w", err)
		}
		if len(latest) > 0 {
			fmt.Fprintf(out, "\nLatest %d articles\n\n", len(latest))
			printArticles(out, latest)
		}
	}

	if len(results) > 0 && failed == len(results) {
		return fmt.Errorf("all %d sources failed", failed)
	}
	return nil
}
