// Package cliflags holds the flags shared by the cutoff command line tools.
//
//nolint:wrapcheck
package cliflags

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/cutoff"
	"github.com/farcloser/cutoff/internal/audit/spectral"
	"github.com/farcloser/cutoff/internal/source"
)

// LogLevel is the global --log-level flag, applied by SetLogLevel.
func LogLevel() cli.Flag {
	return &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level: debug, info, warn, error",
		Value: "warn",
	}
}

// SetLogLevel is a cli Before hook.
func SetLogLevel(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
		return ctx, fmt.Errorf("--log-level: %w", err)
	}

	slog.SetLogLoggerLevel(level)

	return ctx, nil
}

// Analysis returns the tuning flags of every command that runs the analysis.
func Analysis() []cli.Flag {
	defaults := cutoff.DefaultOptions()

	return []cli.Flag{
		&cli.IntFlag{
			Name:  "max-frames",
			Usage: "Maximum number of one-second frames to average",
			Value: defaults.MaxFrames,
		},
		&cli.FloatFlag{
			Name:  "drop",
			Usage: "Log10 magnitude drop across the lookahead that marks a cutoff",
			Value: defaults.DropThreshold,
		},
		&cli.FloatFlag{
			Name:  "flat-ratio",
			Usage: "Ratio to the top bin above which the top band is considered flat",
			Value: defaults.FlatRatio,
		},
		&cli.IntFlag{
			Name:  "channel",
			Usage: "Channel to analyze (0-based), -1 for the mean of all channels",
			Value: defaults.Channel,
		},
		&cli.StringFlag{
			Name:  "fft",
			Usage: "FFT implementation: gonum, go-dsp",
			Value: defaults.Backend.String(),
		},
	}
}

// Options reads the Analysis flags.
func Options(cmd *cli.Command) (cutoff.Options, error) {
	backend, err := spectral.ParseBackend(cmd.String("fft"))
	if err != nil {
		return cutoff.Options{}, fmt.Errorf("--fft: %w", err)
	}

	opts := cutoff.DefaultOptions()
	opts.MaxFrames = cmd.Int("max-frames")
	opts.DropThreshold = cmd.Float("drop")
	opts.FlatRatio = cmd.Float("flat-ratio")
	opts.Channel = cmd.Int("channel")
	opts.Backend = backend

	return opts, nil
}

// Decoder returns the flags of commands that decode audio files.
func Decoder() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "decoder",
			Usage: "Decoder: auto (in-process for .wav, ffmpeg otherwise), ffmpeg, wav",
			Value: string(source.DecoderAuto),
		},
		&cli.IntFlag{
			Name:  "stream",
			Usage: "Audio stream index (0-based)",
			Value: 0,
		},
	}
}

// Source reads the Decoder flags. Channel and duration follow the analysis options.
func Source(cmd *cli.Command, opts cutoff.Options) (source.Options, error) {
	decoder, err := source.ParseDecoder(cmd.String("decoder"))
	if err != nil {
		return source.Options{}, fmt.Errorf("--decoder: %w", err)
	}

	return source.Options{
		Decoder:     decoder,
		Stream:      cmd.Int("stream"),
		Channel:     opts.Channel,
		MaxDuration: time.Duration(opts.MaxFrames) * time.Second,
	}, nil
}
