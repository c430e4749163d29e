package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
)

func Sources(_ context.Context, args []string, out io.Writer) error {
	if err := flag.NewFlagSet("sources", flag.ContinueOnError).Parse(args); err != nil {
		return err
	}
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Configured sources")
	fmt.Fprintln(out)
	for i, s := range cfg.Sources {
		state := ""
		if !s.IsEnabled() {
			state = " (disabled)"
		}
		fmt.Fprintf(out, "%d. %s [%s]%s\n   URL: %s\n\n", i+1, s.Name, s.Kind, state, s.URL)
	}
	return nil
}
