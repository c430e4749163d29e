package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"newsingest/internal/cmd"
	"newsingest/internal/helper"
)

var commands = map[string]func(context.Context, []string, io.Writer) error{
	"ingest":  cmd.Ingest,
	"latest":  cmd.Latest,
	"all":     cmd.All,
	"sources": cmd.Sources,
	"reset":   cmd.Reset,
}

func main() {
	if len(os.Args) < 2 {
		helper.PrintHelp(os.Stdout)
		os.Exit(1)
	}

	name := os.Args[1]
	args := os.Args[2:]

	switch name {
	case "--help", "-h", "help":
		helper.PrintHelp(os.Stdout)
		return
	}

	run, ok := commands[name]
	if !ok {
		fmt.Printf("unknown command: %s\n\n", name)
		helper.PrintHelp(os.Stdout)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, args, os.Stdout)
	cancel()
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}
