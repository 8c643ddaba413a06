//nolint:wrapcheck
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/farcloser/primordium/format"

	"github.com/farcloser/cutoff"
	"github.com/farcloser/cutoff/internal/output"
)

// formatLine prints "<name> | <score> kHz | Quality: <label>" without a formatter.
const formatLine = "line"

// entry is one analyzed file, or the reason it could not be.
type entry struct {
	name   string
	result *cutoff.Result
	err    error
}

func outputResult(name string, result *cutoff.Result, formatName string, debug bool) error {
	return outputEntries([]entry{{name: name, result: result}}, formatName, debug)
}

func outputEntries(entries []entry, formatName string, debug bool) error {
	if formatName == formatLine {
		for _, e := range entries {
			printLine(os.Stdout, e)
		}

		return nil
	}

	formatter, err := format.GetFormatter(formatName)
	if err != nil {
		return err
	}

	data := make([]*format.Data, 0, len(entries))
	for _, e := range entries {
		data = append(data, &format.Data{
			Object: e.name,
			Meta:   entryMeta(e, debug),
		})
	}

	return formatter.PrintAll(data, os.Stdout)
}

func printLine(writer io.Writer, e entry) {
	if e.err != nil {
		fmt.Fprintln(writer, output.FailureLine(e.name, e.err))

		return
	}

	fmt.Fprintln(writer, output.Line(e.name, e.result))
}

func entryMeta(e entry, debug bool) map[string]any {
	if e.err != nil {
		return map[string]any{"error": e.err.Error()}
	}

	if debug {
		return output.ResultToMap(e.result)
	}

	return buildFriendlyOutput(e.result)
}

// buildFriendlyOutput creates a user-friendly summary of the analysis results.
func buildFriendlyOutput(result *cutoff.Result) map[string]any {
	meta := map[string]any{
		"quality": result.Label,
		"score":   output.Score(result.Score) + " kHz",
		"frames":  fmt.Sprintf("%d s analyzed at %d Hz", result.Frames, result.SampleRate),
	}

	switch {
	case result.Silent:
		meta["cutoff"] = "not measured (silence)"
	case result.Degenerate:
		meta["cutoff"] = "not measured (shorter than one second)"
	case result.NoCutoff():
		meta["cutoff"] = "none detected"
	default:
		meta["cutoff"] = fmt.Sprintf("%.1f kHz", result.CutoffHz()/1000)
	}

	return meta
}
