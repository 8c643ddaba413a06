//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/cutoff"
	"github.com/farcloser/cutoff/internal/cliflags"
	"github.com/farcloser/cutoff/internal/source"
)

var errProcessArgs = errors.New("expected exactly one argument: file path")

func processCommand() *cli.Command {
	return &cli.Command{
		Name:      "process",
		Usage:     "Decode an audio file and estimate its encoding quality",
		ArgsUsage: "<file>",
		Flags: slices.Concat(cliflags.Decoder(), []cli.Flag{
			formatFlag(),
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"D"},
				Usage:   "Include all raw analyzer data in output",
			},
		}, cliflags.Analysis()),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errProcessArgs, cmd.NArg())
			}

			filePath := cmd.Args().First()

			opts, err := cliflags.Options(cmd)
			if err != nil {
				return err
			}

			loadOpts, err := cliflags.Source(cmd, opts)
			if err != nil {
				return err
			}

			buf, err := source.Load(ctx, filePath, loadOpts)
			if err != nil {
				return err
			}

			result, err := cutoff.Analyze(buf.Samples, buf.SampleRate, opts)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			return outputResult(filePath, result, cmd.String("format"), cmd.Bool("debug"))
		},
	}
}
