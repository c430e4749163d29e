package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
)

// Reset drops and recreates the articles table.
func Reset(ctx context.Context, args []string, out io.Writer) error {
	fset := flag.NewFlagSet("reset", flag.ContinueOnError)
	var yes bool
	fset.BoolVar(&yes, "yes", false, "confirm deletion of every stored article")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if !yes {
		return fmt.Errorf("reset deletes every stored article; rerun with --yes")
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if err := requirePersistentStore(cfg, "reset"); err != nil {
		return err
	}
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.Reset(ctx); err != nil {
		return fmt.Errorf("could not reset articles: %w", err)
	}
	fmt.Fprintln(out, "Articles table recreated")
	return nil
}
