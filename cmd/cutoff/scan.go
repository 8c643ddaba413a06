//nolint:wrapcheck
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/cutoff"
	"github.com/farcloser/cutoff/internal/cliflags"
	"github.com/farcloser/cutoff/internal/scan"
	"github.com/farcloser/cutoff/internal/source"
)

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "Recursively estimate the quality of every matching file in a directory",
		ArgsUsage: "[directory]",
		Flags: slices.Concat(cliflags.Decoder(), []cli.Flag{
			&cli.StringFlag{
				Name:    "ext",
				Aliases: []string{"e"},
				Usage:   "Comma-separated extensions to include, \"*\" for every file",
				Value:   "flac",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"j"},
				Usage:   "Number of concurrent workers (0 = one per CPU)",
				Value:   0,
			},
			formatFlag(),
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"D"},
				Usage:   "Include all raw analyzer data in output",
			},
		}, cliflags.Analysis()),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			root := "."
			if cmd.NArg() > 0 {
				root = cmd.Args().First()
			}

			opts, err := cliflags.Options(cmd)
			if err != nil {
				return err
			}

			loadOpts, err := cliflags.Source(cmd, opts)
			if err != nil {
				return err
			}

			files, err := scan.Collect(root, scan.ParseFilter(cmd.String("ext")))
			if err != nil {
				return fmt.Errorf("scanning folder: %w", err)
			}

			formatName := cmd.String("format")
			emit := newOrderedPrinter(len(files), formatName == formatLine)

			entries := scan.Run(ctx, files, cmd.Int("workers"),
				func() *cutoff.Analyzer { return cutoff.NewAnalyzer(opts) },
				func(ctx context.Context, analyzer *cutoff.Analyzer, path string) entry {
					return analyzeFile(ctx, analyzer, path, loadOpts)
				},
				func(idx int, _ string, e entry) { emit.done(idx, e) },
			)

			if formatName == formatLine {
				return nil
			}

			return outputEntries(entries, formatName, cmd.Bool("debug"))
		},
	}
}

func analyzeFile(ctx context.Context, analyzer *cutoff.Analyzer, path string, loadOpts source.Options) entry {
	e := entry{name: filepath.Base(path)}

	buf, err := source.Load(ctx, path, loadOpts)
	if err != nil {
		e.err = err

		return e
	}

	e.result, e.err = analyzer.Analyze(buf.Samples, buf.SampleRate)

	return e
}

// orderedPrinter prints line output as soon as every earlier file is done, so results stream in path order.
type orderedPrinter struct {
	mu      sync.Mutex
	enabled bool
	next    int
	pending []*entry
}

func newOrderedPrinter(total int, enabled bool) *orderedPrinter {
	return &orderedPrinter{
		enabled: enabled,
		pending: make([]*entry, total),
	}
}

func (p *orderedPrinter) done(idx int, e entry) {
	if !p.enabled {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.pending[idx] = &e

	for p.next < len(p.pending) && p.pending[p.next] != nil {
		printLine(os.Stdout, *p.pending[p.next])
		p.pending[p.next] = nil
		p.next++
	}
}
