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
		Name:    version.Name(),
		Usage:   "Estimate the encoding quality of audio files from their spectral cutoff",
		Version: version.Version() + " " + version.Commit(),
		Flags: []cli.Flag{
			cliflags.LogLevel(),
		},
		Before: cliflags.SetLogLevel,
		Commands: []*cli.Command{
			analyzeCommand(),
			processCommand(),
			scanCommand(),
		},
	}

	if err := appl.Run(ctx, os.Args); err != nil {
		slog.Error("failed to run", "error", err)
		os.Exit(1)
	}
}
