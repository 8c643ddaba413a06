// Package source decodes audio files into a single channel of normalized samples.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/cutoff/internal/integration/ffmpeg"
	"github.com/farcloser/cutoff/internal/integration/ffprobe"
	"github.com/farcloser/cutoff/internal/integration/wav"
	"github.com/farcloser/cutoff/internal/pcm"
	"github.com/farcloser/cutoff/internal/types"
)

// Decoder selects how a file is turned into PCM.
type Decoder string

const (
	DecoderAuto   Decoder = "auto"   // in-process for .wav, ffmpeg for everything else
	DecoderFFmpeg Decoder = "ffmpeg" // ffprobe + ffmpeg
	DecoderWav    Decoder = "wav"    // in-process RIFF WAVE only
)

var (
	ErrDecode         = errors.New("decode failure")
	errUnknownDecoder = errors.New("unknown decoder")
)

// ParseDecoder converts a decoder name. The empty string is DecoderAuto.
func ParseDecoder(name string) (Decoder, error) {
	switch Decoder(strings.ToLower(name)) {
	case DecoderAuto, "":
		return DecoderAuto, nil
	case DecoderFFmpeg:
		return DecoderFFmpeg, nil
	case DecoderWav:
		return DecoderWav, nil
	default:
		return "", fmt.Errorf("%w %q (valid: auto, ffmpeg, wav)", errUnknownDecoder, name)
	}
}

// Options controls Load.
type Options struct {
	Decoder Decoder
	// Stream is the audio stream index for containers with several (ffmpeg only).
	Stream int
	// Channel to keep, or pcm.ChannelMix.
	Channel int
	// MaxDuration stops decoding after that much audio. Zero reads everything.
	MaxDuration time.Duration
}

// Buffer is one decoded channel.
type Buffer struct {
	Samples    []float64
	SampleRate int
	Channels   int
	Decoder    Decoder
}

// Load decodes path.
func Load(ctx context.Context, path string, opts Options) (*Buffer, error) {
	decoder := opts.Decoder
	if decoder == "" {
		decoder = DecoderAuto
	}

	slog.Debug("source.Load", "path", path, "decoder", decoder)

	var (
		buf *Buffer
		err error
	)

	switch decoder {
	case DecoderWav:
		buf, err = loadWav(path, opts)
	case DecoderFFmpeg:
		buf, err = loadFFmpeg(ctx, path, opts)
	case DecoderAuto:
		if !strings.EqualFold(filepath.Ext(path), ".wav") {
			buf, err = loadFFmpeg(ctx, path, opts)

			break
		}

		buf, err = loadWav(path, opts)
		// Float and extensible WAV files are left to ffmpeg.
		if errors.Is(err, wav.ErrInvalidFile) ||
			errors.Is(err, wav.ErrUnsupportedFormat) ||
			errors.Is(err, pcm.ErrUnsupportedBitDepth) {
			slog.Debug("source.Load", "path", path, "fallback", DecoderFFmpeg, "error", err)

			buf, err = loadFFmpeg(ctx, path, opts)
		}
	default:
		return nil, fmt.Errorf("%w %q", errUnknownDecoder, decoder)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return buf, nil
}

func loadWav(path string, opts Options) (*Buffer, error) {
	decoded, err := wav.DecodeFile(path)
	if err != nil {
		return nil, err
	}

	format := wav.Format(decoded)

	samples, err := pcm.FromInts(
		decoded.Data,
		int(format.Channels), //nolint:gosec // channel count is small
		int(format.BitDepth), //nolint:gosec // bit depth is small
		opts.Channel,
		maxSamples(format.SampleRate, opts.MaxDuration),
	)
	if err != nil {
		return nil, err
	}

	return &Buffer{
		Samples:    samples,
		SampleRate: format.SampleRate,
		Channels:   int(format.Channels), //nolint:gosec // channel count is small
		Decoder:    DecoderWav,
	}, nil
}

func loadFFmpeg(ctx context.Context, path string, opts Options) (*Buffer, error) {
	probeResult, err := ffprobe.Probe(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("probing file: %w", err)
	}

	stream, err := probeResult.AudioStream(opts.Stream)
	if err != nil {
		return nil, err
	}

	sampleRate, err := stream.Rate()
	if err != nil {
		return nil, err
	}

	channels, err := stream.ChannelCount()
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified audio files
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}
	defer file.Close()

	format := types.PCMFormat{SampleRate: sampleRate, BitDepth: types.Depth32, Channels: channels}

	var pcmBuf bytes.Buffer

	if err = ffmpeg.ExtractStream(ctx, file, &pcmBuf, opts.Stream, &format, opts.MaxDuration); err != nil {
		return nil, fmt.Errorf("extracting PCM: %w", err)
	}

	samples, err := pcm.ReadChannel(&pcmBuf, format, opts.Channel, maxSamples(sampleRate, opts.MaxDuration))
	if err != nil {
		return nil, err
	}

	return &Buffer{
		Samples:    samples,
		SampleRate: sampleRate,
		Channels:   int(channels), //nolint:gosec // channel count is small
		Decoder:    DecoderFFmpeg,
	}, nil
}

func maxSamples(sampleRate int, duration time.Duration) int {
	if duration <= 0 {
		return 0
	}

	return int(int64(sampleRate) * int64(duration) / int64(time.Second))
}
