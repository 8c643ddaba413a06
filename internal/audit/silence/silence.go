// Package silence finds stretches of near-silence in a single channel. Spectra of silent audio carry no
// cutoff, so callers use it to flag results that only reflect the absence of signal.
package silence

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// floorDb stands in for the level of digital zero.
const floorDb = -120.0

type Options struct {
	ThresholdDb   float64 // below this = silence (default -60)
	MinDurationMs int     // minimum silence to report (default 1000)
	WindowMs      int     // RMS window size (default 50)
}

func DefaultOptions() Options {
	return Options{
		ThresholdDb:   -60.0,
		MinDurationMs: 1000,
		WindowMs:      50,
	}
}

// Segment is one silent stretch, in samples and seconds.
type Segment struct {
	StartSample int     `json:"start_sample"`
	EndSample   int     `json:"end_sample"`
	StartSec    float64 `json:"start_sec"`
	EndSec      float64 `json:"end_sec"`
	DurationSec float64 `json:"duration_sec"`
	RmsDb       float64 `json:"rms_db"`
}

type Result struct {
	Segments      []Segment `json:"segments"`
	TotalSilence  float64   `json:"total_silence"`
	LeadingSec    float64   `json:"leading_sec"`
	TrailingSec   float64   `json:"trailing_sec"`
	TotalDuration float64   `json:"total_duration"`
	Samples       int       `json:"samples"`
}

// Silent reports whether the whole input is one silent segment.
func (r *Result) Silent() bool {
	return r.Samples > 0 && len(r.Segments) == 1 &&
		r.Segments[0].StartSample == 0 && r.Segments[0].EndSample == r.Samples
}

// Detect windows samples into RMS blocks of WindowMs and merges consecutive blocks below ThresholdDb.
// Stretches shorter than MinDurationMs are ignored, except that input shorter than MinDurationMs that is
// silent throughout is still reported as one segment.
func Detect(samples []float64, sampleRate int, opts Options) *Result {
	applyDefaults(&opts)

	result := &Result{Samples: len(samples)}
	if sampleRate <= 0 || len(samples) == 0 {
		return result
	}

	windowSamples := max(sampleRate*opts.WindowMs/1000, 1)
	minSilence := min(sampleRate*opts.MinDurationMs/1000, len(samples))
	threshold := math.Pow(10, opts.ThresholdDb/20)

	var (
		inSilence    bool
		silenceStart int
		silenceSumSq float64
	)

	closeSegment := func(end int) {
		inSilence = false

		if end-silenceStart < minSilence {
			return
		}

		rmsDb := 20 * math.Log10(math.Sqrt(silenceSumSq/float64(end-silenceStart)))
		if math.IsInf(rmsDb, -1) {
			rmsDb = floorDb
		}

		result.Segments = append(result.Segments, Segment{
			StartSample: silenceStart,
			EndSample:   end,
			StartSec:    float64(silenceStart) / float64(sampleRate),
			EndSec:      float64(end) / float64(sampleRate),
			DurationSec: float64(end-silenceStart) / float64(sampleRate),
			RmsDb:       rmsDb,
		})
	}

	for start := 0; start < len(samples); start += windowSamples {
		window := samples[start:min(start+windowSamples, len(samples))]
		sumSq := floats.Dot(window, window)
		silent := math.Sqrt(sumSq/float64(len(window))) < threshold

		switch {
		case silent && !inSilence:
			inSilence = true
			silenceStart = start
			silenceSumSq = sumSq
		case silent && inSilence:
			silenceSumSq += sumSq
		case !silent && inSilence:
			closeSegment(start)
		}
	}

	if inSilence {
		closeSegment(len(samples))
	}

	result.TotalDuration = float64(len(samples)) / float64(sampleRate)

	for _, seg := range result.Segments {
		result.TotalSilence += seg.DurationSec
	}

	if len(result.Segments) > 0 {
		if first := result.Segments[0]; first.StartSample == 0 {
			result.LeadingSec = first.DurationSec
		}

		if last := result.Segments[len(result.Segments)-1]; last.EndSample == len(samples) {
			result.TrailingSec = last.DurationSec
		}
	}

	return result
}

func applyDefaults(opts *Options) {
	defaults := DefaultOptions()

	if opts.ThresholdDb == 0 {
		opts.ThresholdDb = defaults.ThresholdDb
	}

	if opts.MinDurationMs == 0 {
		opts.MinDurationMs = defaults.MinDurationMs
	}

	if opts.WindowMs == 0 {
		opts.WindowMs = defaults.WindowMs
	}
}
