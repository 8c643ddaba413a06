//nolint:tagliatelle
package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/cutoff/internal/integration/binary"
)

var (
	ErrNoAudioStream     = errors.New("audio stream not found")
	ErrInvalidSampleRate = errors.New("invalid sample rate from probe")
	ErrInvalidChannels   = errors.New("invalid channel count from probe")
)

// Result contains the marshalled output of ffprobe.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream holds the stream fields needed to decode and label audio.
type Stream struct {
	Index            int    `json:"index"`
	CodecName        string `json:"codec_name"`                    // flac
	CodecType        string `json:"codec_type"`                    // audio
	SampleRate       string `json:"sample_rate,omitempty"`         // 44100
	Channels         int    `json:"channels,omitempty"`            // 2
	Duration         string `json:"duration,omitempty"`            // 310.666667
	BitRate          string `json:"bit_rate,omitempty"`            // 956821, absent for most lossless codecs
	BitsPerRawSample string `json:"bits_per_raw_sample,omitempty"` // reliable for FLAC and ALAC
	BitsPerSample    int    `json:"bits_per_sample,omitempty"`     // reliable for WAV and AIFF
}

// Format is the container-level part of the output.
type Format struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`        // "flac", "mov,mp4,m4a,3gp,3g2,mj2"
	Duration   string `json:"duration,omitempty"` // seconds as a float string
	BitRate    string `json:"bit_rate,omitempty"`
}

// AudioStream returns the streamIndex-th audio stream (0-based, counting audio streams only).
func (r *Result) AudioStream(streamIndex int) (*Stream, error) {
	audioCount := 0

	for i := range r.Streams {
		if r.Streams[i].CodecType != "audio" {
			continue
		}

		if audioCount == streamIndex {
			return &r.Streams[i], nil
		}

		audioCount++
	}

	return nil, fmt.Errorf("%w: index %d (file has %d audio streams)", ErrNoAudioStream, streamIndex, audioCount)
}

// Rate parses the sample rate.
func (s *Stream) Rate() (int, error) {
	sampleRate, err := strconv.Atoi(s.SampleRate)
	if err != nil || sampleRate <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSampleRate, s.SampleRate)
	}

	return sampleRate, nil
}

// ChannelCount validates the channel count.
func (s *Stream) ChannelCount() (uint, error) {
	if s.Channels <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidChannels, s.Channels)
	}

	return uint(s.Channels), nil //nolint:gosec // validated positive value
}

// Probe runs ffprobe on the given file path and returns parsed metadata.
// It requires ffprobe to be available in the system PATH.
func Probe(ctx context.Context, filePath string) (*Result, error) {
	slog.Debug("ffprobe.Probe", "file path", filePath)

	ffprobePath, err := binary.Require(name)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // filePath is intentionally user-provided input for probing media files
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		return nil, fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	return parse(output)
}

func parse(output []byte) (*Result, error) {
	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrInvalidJSON, err)
	}

	return &result, nil
}
