package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
)

func Latest(ctx context.Context, args []string, out io.Writer) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	fset := flag.NewFlagSet("latest", flag.ContinueOnError)
	var num int
	fset.IntVar(&num, "num", cfg.LatestLimit, "number of articles")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if num <= 0 {
		return fmt.Errorf("--num must be positive")
	}
	if err := requirePersistentStore(cfg, "latest"); err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	arts, err := store.GetLatest(ctx, num)
	if err != nil {
		return fmt.Errorf("could not fetch latest articles: %w", err)
	}
	if len(arts) == 0 {
		fmt.Fprintln(out, "No articles found")
		return nil
	}

	fmt.Fprintf(out, "Latest %d articles\n\n", len(arts))
	printArticles(out, arts)
	return nil
}

// All prints every stored article, including those without a time.
func All(ctx context.Context, args []string, out io.Writer) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if err := flag.NewFlagSet("all", flag.ContinueOnError).Parse(args); err != nil {
		return err
	}
	if err := requirePersistentStore(cfg, "all"); err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	arts, err := store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("could not fetch articles: %w", err)
	}
	if len(arts) == 0 {
		fmt.Fprintln(out, "No articles found")
		return nil
	}

	fmt.Fprintf(out, "%d stored articles\n\n", len(arts))
	printArticles(out, arts)
	return nil
}
