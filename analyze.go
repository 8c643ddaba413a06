package cutoff

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/farcloser/cutoff/internal/audit/cutoff"
	"github.com/farcloser/cutoff/internal/audit/frames"
	"github.com/farcloser/cutoff/internal/audit/quality"
	"github.com/farcloser/cutoff/internal/audit/silence"
	"github.com/farcloser/cutoff/internal/audit/smooth"
	"github.com/farcloser/cutoff/internal/audit/spectral"
	"github.com/farcloser/cutoff/internal/pcm"
	"github.com/farcloser/cutoff/internal/types"
)

/*
Usage:

result, err := cutoff.Analyze(samples, 44100, cutoff.DefaultOptions())
fmt.Printf("%v kHz | Quality: %s\n", result.Score, result.Label)

// Raw interleaved PCM, second channel
opts := cutoff.DefaultOptions()
opts.Channel = 1
result, err := cutoff.AnalyzeReader(reader, types.PCMFormat{SampleRate: 48000, BitDepth: types.Depth32, Channels: 2}, opts)

// Many files on one goroutine: reuse the window and FFT plan
analyzer := cutoff.NewAnalyzer(cutoff.DefaultOptions())
for _, buf := range buffers {
    result, err := analyzer.Analyze(buf.Samples, buf.SampleRate)
}
*/

// ErrInvalidSampleRate is returned for rates too low to size the smoothing window and lookahead.
var ErrInvalidSampleRate = errors.New("invalid sample rate")

// Analyzer runs the cutoff pipeline. It keeps one spectral averager per sample rate, so window
// coefficients and FFT plans are built once. An Analyzer is not safe for concurrent use: give each
// worker its own.
type Analyzer struct {
	opts      Options
	averagers map[int]*spectral.Averager
}

// NewAnalyzer returns an Analyzer with opts, zero fields replaced by defaults.
func NewAnalyzer(opts Options) *Analyzer {
	applyDefaults(&opts)

	return &Analyzer{
		opts:      opts,
		averagers: make(map[int]*spectral.Averager),
	}
}

// Options returns the effective options.
func (a *Analyzer) Options() Options {
	return a.opts
}

// Analyze estimates the quality of one channel of decoded audio.
// Buffers shorter than one second are not an error: the result is marked Degenerate.
func (a *Analyzer) Analyze(samples []float64, sampleRate int) (*Result, error) {
	if err := a.checkRate(sampleRate); err != nil {
		return nil, err
	}

	averager, err := a.averager(sampleRate)
	if err != nil {
		return nil, err
	}

	spectrum, err := averager.Average(frames.Extract(samples, sampleRate, a.opts.MaxFrames))
	if err != nil {
		return nil, err
	}

	smoothed := smooth.MovingAverage(spectrum.Log, smooth.Window(sampleRate, a.opts.SmoothingDivisor))

	bin := cutoff.Find(smoothed, cutoff.Params{
		Lookahead: sampleRate / a.opts.LookaheadDivisor,
		Drop:      a.opts.DropThreshold,
		FlatRatio: a.opts.FlatRatio,
	})

	score, label := quality.Classify(bin)

	analyzed := samples[:min(len(samples), sampleRate*a.opts.MaxFrames)]
	silent := silence.Detect(analyzed, sampleRate, silence.DefaultOptions()).Silent()

	slog.Debug("cutoff.Analyze",
		"sample rate", sampleRate,
		"frames", spectrum.Frames,
		"cutoff bin", bin,
		"score", score,
		"label", label,
		"silent", silent,
	)

	return &Result{
		Score:       score,
		Label:       label,
		CutoffBin:   bin,
		SpectrumLen: len(smoothed),
		Frames:      spectrum.Frames,
		SampleRate:  sampleRate,
		Degenerate:  spectrum.Frames == 0,
		Silent:      silent,
	}, nil
}

// AnalyzeReader decodes interleaved little-endian PCM and analyzes the configured channel.
// Only the first MaxFrames seconds are read.
func (a *Analyzer) AnalyzeReader(reader io.Reader, format types.PCMFormat) (*Result, error) {
	if err := a.checkRate(format.SampleRate); err != nil {
		return nil, err
	}

	samples, err := pcm.ReadChannel(reader, format, a.opts.Channel, format.SampleRate*a.opts.MaxFrames)
	if err != nil {
		return nil, err
	}

	return a.Analyze(samples, format.SampleRate)
}

// Analyze is a one-shot Analyzer.Analyze.
func Analyze(samples []float64, sampleRate int, opts Options) (*Result, error) {
	return NewAnalyzer(opts).Analyze(samples, sampleRate)
}

// AnalyzeReader is a one-shot Analyzer.AnalyzeReader.
func AnalyzeReader(reader io.Reader, format types.PCMFormat, opts Options) (*Result, error) {
	return NewAnalyzer(opts).AnalyzeReader(reader, format)
}

func (a *Analyzer) checkRate(sampleRate int) error {
	if smooth.Window(sampleRate, a.opts.SmoothingDivisor) < 1 || sampleRate/a.opts.LookaheadDivisor < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}

	return nil
}

func (a *Analyzer) averager(sampleRate int) (*spectral.Averager, error) {
	if averager, ok := a.averagers[sampleRate]; ok && averager.Backend() == a.opts.Backend {
		return averager, nil
	}

	averager, err := spectral.NewAverager(sampleRate, a.opts.Backend)
	if err != nil {
		return nil, err
	}

	a.averagers[sampleRate] = averager

	return averager, nil
}
