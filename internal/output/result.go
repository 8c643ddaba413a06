// Package output provides shared result serialization for cutoff output and reports.
package output

import (
	"fmt"
	"strconv"

	"github.com/farcloser/cutoff"
)

// ResultToMap converts an analysis result into the canonical map structure
// used for JSON and JSONL serialization.
func ResultToMap(result *cutoff.Result) map[string]any {
	return map[string]any{
		"score":        result.Score,
		"label":        result.Label,
		"cutoff_bin":   result.CutoffBin,
		"cutoff_hz":    result.CutoffHz(),
		"no_cutoff":    result.NoCutoff(),
		"spectrum_len": result.SpectrumLen,
		"frames":       result.Frames,
		"sample_rate":  result.SampleRate,
		"degenerate":   result.Degenerate,
		"silent":       result.Silent,
	}
}

// Score renders a score with the fewest digits that represent it exactly.
func Score(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// Line is the one-line form used by batch scans: "<name> | <score> kHz | Quality: <label>".
func Line(name string, result *cutoff.Result) string {
	return fmt.Sprintf("%s | %s kHz | Quality: %s", name, Score(result.Score), result.Label)
}

// FailureLine reports a file that could not be analyzed.
func FailureLine(name string, err error) string {
	return fmt.Sprintf("%s failed due to an exception: %v", name, err)
}
