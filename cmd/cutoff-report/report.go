//nolint:wrapcheck
package main

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/farcloser/cutoff"
	"github.com/farcloser/cutoff/internal/audit/quality"
	"github.com/farcloser/cutoff/internal/cliflags"
	"github.com/farcloser/cutoff/internal/integration/tags"
	"github.com/farcloser/cutoff/internal/output"
	"github.com/farcloser/cutoff/internal/scan"
	"github.com/farcloser/cutoff/internal/source"
)

const (
	outputFile     = "cutoff-report.jsonl"
	defaultExtList = "flac,m4a,wav,aiff,mp3,ogg,opus"
)

var (
	errReportArgs   = errors.New("expected exactly one argument: folder path")
	errNoAudioFiles = errors.New("no matching audio files found")
)

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "Scan a music collection and write a cutoff JSONL report",
		ArgsUsage: "<folder>",
		Flags: slices.Concat([]cli.Flag{
			&cli.BoolFlag{
				Name:  "redact-path",
				Usage: "Strip file paths and tag text from the report",
			},
			&cli.StringFlag{
				Name:    "ext",
				Aliases: []string{"e"},
				Usage:   "Comma-separated extensions to include, \"*\" for every file",
				Value:   defaultExtList,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Report path (a .gz copy is written next to it)",
				Value:   outputFile,
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"j"},
				Usage:   "Number of concurrent workers (0 = one per CPU)",
				Value:   0,
			},
		}, cliflags.Decoder(), cliflags.Analysis()),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return errReportArgs
			}

			opts, err := cliflags.Options(cmd)
			if err != nil {
				return err
			}

			load, err := cliflags.Source(cmd, opts)
			if err != nil {
				return err
			}

			cfg := reportConfig{
				folder:  cmd.Args().First(),
				output:  cmd.String("output"),
				filter:  scan.ParseFilter(cmd.String("ext")),
				redact:  cmd.Bool("redact-path"),
				workers: scan.Workers(cmd.Int("workers")),
				opts:    opts,
				load:    load,
			}

			return runReport(ctx, cfg, os.Stderr)
		},
	}
}

type reportConfig struct {
	folder  string
	output  string
	filter  scan.Filter
	redact  bool
	workers int
	opts    cutoff.Options
	load    source.Options
}

func runReport(ctx context.Context, cfg reportConfig, stderr io.Writer) error {
	files, err := scan.Collect(cfg.folder, cfg.filter)
	if err != nil {
		return fmt.Errorf("scanning folder: %w", err)
	}

	if len(files) == 0 {
		return fmt.Errorf("%q (%s): %w", cfg.folder, cfg.filter, errNoAudioFiles)
	}

	fmt.Fprintf(stderr, "Found %d files to analyze (%d workers)\n", len(files), cfg.workers)

	startTime := time.Now()

	progress := mpb.New(mpb.WithWidth(64), mpb.WithOutput(stderr))
	bar := progress.AddBar(int64(len(files)),
		mpb.PrependDecorators(
			decor.Name("Analyzing: "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
			decor.EwmaETA(decor.ET_STYLE_GO, 60),
		),
	)

	results := scan.Run(ctx, files, cfg.workers,
		func() *cutoff.Analyzer { return cutoff.NewAnalyzer(cfg.opts) },
		func(ctx context.Context, analyzer *cutoff.Analyzer, path string) Record {
			return processFile(ctx, analyzer, path, cfg.load)
		},
		func(int, string, Record) { bar.Increment() },
	)

	progress.Wait()

	failed, err := writeReport(cfg.output, results, cfg.redact)
	if err != nil {
		return err
	}

	if err := compressFile(cfg.output); err != nil {
		slog.Error("compressing report", "error", err)
	}

	elapsed := time.Since(startTime)
	minutes := int(elapsed.Minutes())
	seconds := int(elapsed.Seconds()) % 60

	fmt.Fprintf(stderr, "\nDone: %d files in %dm %ds (%d failed)\n", len(files), minutes, seconds, failed)
	fmt.Fprintf(stderr, "Report written to %s (and %s.gz)\n", cfg.output, cfg.output)

	printTiming(stderr, results, elapsed)

	fmt.Fprintln(stderr)

	return runDigest(cfg.output, "", stderr)
}

func writeReport(path string, results []Record, redact bool) (int, error) {
	out, err := os.Create(path) //nolint:gosec // user-chosen report path
	if err != nil {
		return 0, fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	failed := 0

	for idx := range results {
		record := &results[idx]

		if record.Error != "" {
			failed++
		}

		if redact {
			redactRecord(record)
		}

		if err := enc.Encode(record); err != nil {
			slog.Error("writing record", "index", idx, "error", err)
		}
	}

	return failed, out.Close()
}

func printTiming(writer io.Writer, results []Record, elapsed time.Duration) {
	var (
		totalDecode, totalAnalyze time.Duration
		analyzed                  int
	)

	for idx := range results {
		record := &results[idx]

		if record.Timing != nil {
			totalDecode += millisToDuration(record.Timing.DecodeMs)
			totalAnalyze += millisToDuration(record.Timing.AnalyzeMs)
		}

		if record.Error == "" {
			analyzed++
		}
	}

	fmt.Fprintf(writer, "\n--- Timing ---\n")
	fmt.Fprintf(writer, "  Wall clock:  %s\n", elapsed.Truncate(time.Millisecond))
	fmt.Fprintf(writer, "  decode:      %s (cumulative)\n", totalDecode.Truncate(time.Millisecond))
	fmt.Fprintf(writer, "  analysis:    %s (cumulative)\n", totalAnalyze.Truncate(time.Millisecond))

	if analyzed > 0 {
		fmt.Fprintf(writer, "  avg/file:    %s (decode: %s, analyze: %s)\n",
			(totalDecode+totalAnalyze)/time.Duration(analyzed),
			totalDecode/time.Duration(analyzed),
			totalAnalyze/time.Duration(analyzed),
		)
	}
}

func processFile(ctx context.Context, analyzer *cutoff.Analyzer, filePath string, load source.Options) Record {
	fileStart := time.Now()
	timing := &RecordTiming{}
	record := Record{File: filePath, Timing: timing}

	container, err := tags.Inspect(filePath)
	if err != nil {
		slog.Debug("report.processFile", "file", filePath, "tags", err)
	} else {
		record.Container = container
	}

	decodeStart := time.Now()

	buf, err := source.Load(ctx, filePath, load)

	timing.DecodeMs = durationMs(time.Since(decodeStart))

	if err != nil {
		timing.TotalMs = durationMs(time.Since(fileStart))
		record.Error = fmt.Sprintf("decode failed: %v", err)

		return record
	}

	record.Decoder = string(buf.Decoder)

	analyzeStart := time.Now()

	result, err := analyzer.Analyze(buf.Samples, buf.SampleRate)

	timing.AnalyzeMs = durationMs(time.Since(analyzeStart))
	timing.TotalMs = durationMs(time.Since(fileStart))

	if err != nil {
		record.Error = fmt.Sprintf("analysis failed: %v", err)

		return record
	}

	record.Analysis = output.ResultToMap(result)
	record.Suspect = isSuspect(record.Container, result)

	return record
}

// isSuspect flags lossless containers holding audio that was cut off like a lossy encode.
func isSuspect(container *tags.Info, result *cutoff.Result) bool {
	if container == nil || !container.Lossless || result.Degenerate || result.Silent {
		return false
	}

	return quality.Rank(result.Label) > 0
}

func redactRecord(record *Record) {
	record.File = ""

	if record.Container != nil {
		record.Container.Title = ""
		record.Container.Artist = ""
		record.Container.Album = ""
	}
}

func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}

func millisToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

func compressFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // reading our own output file
	if err != nil {
		return err
	}

	gzFile, err := os.Create(path + ".gz")
	if err != nil {
		return err
	}
	defer gzFile.Close()

	gzWriter := gzip.NewWriter(gzFile)

	if _, err := gzWriter.Write(data); err != nil {
		return err
	}

	return gzWriter.Close()
}
