package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/cutoff/internal/cliflags"
	"github.com/farcloser/cutoff/version"
)

func main() {
	ctx := context.Background()

	appl := &cli.Command{
		Name:    version.Name() + "-report",
		Usage:   "Generate and summarize spectral cutoff reports for a music collection",
		Version: version.Version() + " " + version.Commit(),
		Flags: []cli.Flag{
			cliflags.LogLevel(),
		},
		Before: cliflags.SetLogLevel,
		Commands: []*cli.Command{
			reportCommand(),
			digestCommand(),
		},
	}

	if err := appl.Run(ctx, os.Args); err != nil {
		slog.Error("failed to run", "error", err)
		os.Exit(1)
	}
}
