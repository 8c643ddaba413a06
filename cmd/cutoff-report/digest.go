package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/cutoff/internal/audit/quality"
	"github.com/farcloser/cutoff/internal/output"
)

var errDigestArgs = errors.New("expected exactly one argument: path to report.jsonl")

func digestCommand() *cli.Command {
	return &cli.Command{
		Name:      "digest",
		Usage:     "Produce a summary digest from a cutoff JSONL report",
		ArgsUsage: "<report.jsonl>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "label",
				Usage: "List the files carrying a quality label (e.g., \"128 kbps\"), or \"suspect\"",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return errDigestArgs
			}

			return runDigest(cmd.Args().First(), cmd.String("label"), os.Stdout)
		},
	}
}

func runDigest(reportPath, labelFilter string, writer io.Writer) error {
	records, err := readRecords(reportPath)
	if err != nil {
		return err
	}

	printDigest(writer, records)

	if labelFilter != "" {
		printLabelDetail(writer, records, labelFilter)
	}

	return nil
}

func readRecords(path string) ([]digestRecord, error) {
	file, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified report files
	if err != nil {
		return nil, fmt.Errorf("opening report: %w", err)
	}
	defer file.Close()

	var records []digestRecord

	scanner := bufio.NewScanner(file)

	const maxLineSize = 1024 * 1024 // 1MB
	scanner.Buffer(make([]byte, 0, maxLineSize), maxLineSize)

	for scanner.Scan() {
		var rec digestRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			records = append(records, digestRecord{Error: "parse error"})

			continue
		}

		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}

	return records, nil
}

// tallyLabels counts analyzed records per label, in quality table order, Unidentifiable last.
// Labels not in the table (older reports) follow in order of appearance.
func tallyLabels(records []digestRecord) []labelTally {
	tiers := quality.Tiers()
	tallies := make([]labelTally, 0, len(tiers)+1)

	for _, tier := range tiers {
		tallies = append(tallies, labelTally{Label: tier.Label})
	}

	tallies = append(tallies, labelTally{Label: quality.Unidentifiable})

	for _, rec := range records {
		if rec.Error != "" || rec.Analysis == nil {
			continue
		}

		idx := slices.IndexFunc(tallies, func(t labelTally) bool { return t.Label == rec.Analysis.Label })
		if idx < 0 {
			tallies = append(tallies, labelTally{Label: rec.Analysis.Label})
			idx = len(tallies) - 1
		}

		tallies[idx].Count++
	}

	return tallies
}

func printDigest(writer io.Writer, records []digestRecord) {
	total := len(records)
	failed, degenerate, silent, suspect := 0, 0, 0, 0

	for _, rec := range records {
		if rec.Error != "" || rec.Analysis == nil {
			failed++

			continue
		}

		if rec.Analysis.Degenerate {
			degenerate++
		}

		if rec.Analysis.Silent {
			silent++
		}

		if rec.Suspect {
			suspect++
		}
	}

	fmt.Fprintln(writer, "=== Cutoff Report Digest ===")
	fmt.Fprintln(writer)
	fmt.Fprintf(writer, "Total tracks:  %d\n", total)
	fmt.Fprintf(writer, "Failed:        %d\n", failed)
	fmt.Fprintf(writer, "Analyzed:      %d\n", total-failed)
	fmt.Fprintf(writer, "Too short:     %d\n", degenerate)
	fmt.Fprintf(writer, "Silent:        %d\n", silent)
	fmt.Fprintf(writer, "Suspect:       %d\n", suspect)
	fmt.Fprintln(writer)

	fmt.Fprintln(writer, "--- Quality ---")

	for _, tally := range tallyLabels(records) {
		fmt.Fprintf(writer, "  %-18s %d\n", tally.Label+":", tally.Count)
	}
}

// suspectFilter selects suspect records instead of a label in printLabelDetail.
const suspectFilter = "suspect"

func printLabelDetail(writer io.Writer, records []digestRecord, label string) {
	fmt.Fprintln(writer)

	var matches []digestRecord

	for _, rec := range records {
		if rec.Error != "" || rec.Analysis == nil {
			continue
		}

		if rec.Analysis.Label == label || (label == suspectFilter && rec.Suspect) {
			matches = append(matches, rec)
		}
	}

	if len(matches) == 0 {
		fmt.Fprintf(writer, "No tracks labeled %s\n", label)

		return
	}

	slices.SortStableFunc(matches, func(a, b digestRecord) int {
		switch {
		case a.Analysis.Score < b.Analysis.Score:
			return -1
		case a.Analysis.Score > b.Analysis.Score:
			return 1
		default:
			return 0
		}
	})

	fmt.Fprintf(writer, "=== %s: %d tracks ===\n\n", label, len(matches))

	for _, rec := range matches {
		file := rec.File
		if file == "" {
			file = "(redacted)"
		}

		fmt.Fprintf(writer, "  %s\n", file)
		fmt.Fprintf(writer, "    %s kHz  %s", output.Score(rec.Analysis.Score), rec.Analysis.Label)

		if rec.Container != nil {
			fmt.Fprintf(writer, "  (%s)", rec.Container.FileType)
		}

		fmt.Fprintln(writer)
	}
}
