// Package wav decodes and encodes RIFF WAVE files in process, for sources that need no ffmpeg.
package wav

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/farcloser/primordium/fault"
	"github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/farcloser/cutoff/internal/types"
)

const pcmFormat = 1

var (
	ErrInvalidFile       = errors.New("invalid wav file")
	ErrUnsupportedFormat = errors.New("unsupported wav sample format")
	errUnsupportedBits   = errors.New("unsupported wav bit depth")
)

// Decode reads every PCM sample of a WAV stream.
// Only integer PCM (format tag 1) is accepted. Float and extensible files return ErrUnsupportedFormat, since
// go-audio would hand back their raw bit patterns as integers.
func Decode(input io.ReadSeeker) (*audio.IntBuffer, error) {
	decoder := gowav.NewDecoder(input)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidFile
	}

	if decoder.WavAudioFormat != pcmFormat {
		return nil, fmt.Errorf("%w: format tag %#x", ErrUnsupportedFormat, decoder.WavAudioFormat)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	slog.Debug("wav.Decode",
		"sample rate", buf.Format.SampleRate,
		"channels", buf.Format.NumChannels,
		"bit depth", buf.SourceBitDepth,
		"samples", len(buf.Data),
	)

	return buf, nil
}

// DecodeFile opens and decodes path.
func DecodeFile(path string) (*audio.IntBuffer, error) {
	file, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified audio files
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}
	defer file.Close()

	return Decode(file)
}

// Format describes a decoded buffer.
func Format(buf *audio.IntBuffer) types.PCMFormat {
	return types.PCMFormat{
		SampleRate: buf.Format.SampleRate,
		BitDepth:   types.BitDepth(buf.SourceBitDepth), //nolint:gosec // small positive value from the header
		Channels:   uint(buf.Format.NumChannels),       //nolint:gosec // small positive value from the header
	}
}

// Encode writes buf as integer PCM at bitDepth.
func Encode(output io.WriteSeeker, buf *audio.IntBuffer, bitDepth types.BitDepth) error {
	if !bitDepth.Valid() {
		return fmt.Errorf("%w: %d", errUnsupportedBits, bitDepth)
	}

	encoder := gowav.NewEncoder(output, buf.Format.SampleRate, int(bitDepth), buf.Format.NumChannels, pcmFormat)

	if err := encoder.Write(buf); err != nil {
		return err
	}

	return encoder.Close()
}

// EncodeFile creates path and writes buf to it.
func EncodeFile(path string, buf *audio.IntBuffer, bitDepth types.BitDepth) error {
	file, err := os.Create(path) //nolint:gosec // caller-chosen output path
	if err != nil {
		return err
	}

	if err = Encode(file, buf, bitDepth); err != nil {
		_ = file.Close()

		return err
	}

	return file.Close()
}
