package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"time"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/cutoff/internal/integration/binary"
	"github.com/farcloser/cutoff/internal/types"
)

// ExtractStream decodes one audio stream of a container read from input and writes interleaved signed
// little-endian PCM at format.BitDepth to output. The sample rate and channel layout are left untouched.
// A positive duration stops decoding after that much audio.
func ExtractStream(
	ctx context.Context,
	input io.Reader,
	output io.Writer,
	streamIndex int,
	format *types.PCMFormat,
	duration time.Duration,
) error {
	slog.Debug("ffmpeg.ExtractStream", "stream index", streamIndex, "duration", duration, "stage", "start")

	ffmpegPath, err := binary.Require(name)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{
		"-i", "-",
		"-map", "0:a:" + strconv.Itoa(streamIndex),
	}

	if duration > 0 {
		args = append(args, "-t", durationArg(duration))
	}

	args = append(args,
		"-f", bitDepthToSpec(format.BitDepth),
		"-acodec", codecFor(format.BitDepth),
		"-v", "quiet",
		"-",
	)

	cmd := exec.CommandContext(ctx, ffmpegPath, args...)

	cmd.Stdout = output
	cmd.Stdin = input

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			slog.Debug("ffmpeg.ExtractStream", "stream index", streamIndex, "stage", "timeout")

			return fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		slog.Debug("ffmpeg.ExtractStream", "stream index", streamIndex, "stage", "error")

		return fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	slog.Debug("ffmpeg.ExtractStream", "stream index", streamIndex, "stage", "done")

	return nil
}
