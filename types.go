package cutoff

import (
	"github.com/farcloser/cutoff/internal/audit/cutoff"
	"github.com/farcloser/cutoff/internal/audit/frames"
	"github.com/farcloser/cutoff/internal/audit/smooth"
	"github.com/farcloser/cutoff/internal/audit/spectral"
	"github.com/farcloser/cutoff/internal/pcm"
)

// ChannelMix analyzes the mean of all channels instead of a single one.
const ChannelMix = pcm.ChannelMix

// Options configures the analysis. Zero values fall back to the defaults.
type Options struct {
	// MaxFrames caps the number of one-second frames averaged (default: 30).
	MaxFrames int

	// SmoothingDivisor sizes the moving average window as sampleRate / SmoothingDivisor bins (default: 100).
	SmoothingDivisor int

	// LookaheadDivisor sizes the cliff lookahead as sampleRate / LookaheadDivisor bins (default: 50).
	LookaheadDivisor int

	// DropThreshold is the log10 drop across the lookahead that marks a cutoff (default: 1.25).
	DropThreshold float64

	// FlatRatio is the ratio to the top bin above which the top band is considered flat (default: 1.1).
	FlatRatio float64

	// Channel picks the channel of interleaved input (default: 0, the first). ChannelMix averages all.
	Channel int

	// Backend selects the FFT implementation.
	Backend spectral.Backend
}

// DefaultOptions returns the tuning the quality table was calibrated with.
func DefaultOptions() Options {
	return Options{
		MaxFrames:        frames.DefaultMax,
		SmoothingDivisor: smooth.DefaultDivisor,
		LookaheadDivisor: cutoff.DefaultLookaheadDivisor,
		DropThreshold:    cutoff.DefaultDrop,
		FlatRatio:        cutoff.DefaultFlatRatio,
		Channel:          0,
		Backend:          spectral.BackendGonum,
	}
}

// Result is the outcome of one analysis.
type Result struct {
	Score       float64 `json:"score"`        // CutoffBin / 2000, in kHz
	Label       string  `json:"label"`        // quality tier
	CutoffBin   int     `json:"cutoff_bin"`   // index in the smoothed spectrum; SpectrumLen when no cutoff was found
	SpectrumLen int     `json:"spectrum_len"` // length of the smoothed spectrum
	Frames      int     `json:"frames"`       // one-second frames averaged
	SampleRate  int     `json:"sample_rate"`
	Degenerate  bool    `json:"degenerate"` // shorter than one second; the spectrum was all zero
	Silent      bool    `json:"silent"`     // the analyzed audio is silence; the label says nothing about the encoding
}

// CutoffHz returns the cutoff as a frequency. Spectrum bins are half a hertz apart.
func (r *Result) CutoffHz() float64 {
	return float64(r.CutoffBin) / 2
}

// NoCutoff reports whether the scan found no low-pass edge.
func (r *Result) NoCutoff() bool {
	return r.CutoffBin >= r.SpectrumLen
}

func applyDefaults(opts *Options) {
	defaults := DefaultOptions()

	if opts.MaxFrames <= 0 {
		opts.MaxFrames = defaults.MaxFrames
	}

	if opts.SmoothingDivisor <= 0 {
		opts.SmoothingDivisor = defaults.SmoothingDivisor
	}

	if opts.LookaheadDivisor <= 0 {
		opts.LookaheadDivisor = defaults.LookaheadDivisor
	}

	if opts.DropThreshold == 0 {
		opts.DropThreshold = defaults.DropThreshold
	}

	if opts.FlatRatio == 0 {
		opts.FlatRatio = defaults.FlatRatio
	}
}
