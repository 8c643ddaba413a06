package ffmpeg

import (
	"strconv"
	"time"

	"github.com/farcloser/cutoff/internal/types"
)

const (
	name  = "ffmpeg"
	codec = "pcm_s32le"
	// Long files on slow storage take a while to decode.
	timeout = 5 * time.Minute
)

func bitDepthToSpec(bitDepth types.BitDepth) string {
	// BitDepth 32 = s32le, 24 = s24le, 16 = s16le
	//nolint:gosec // we fine, gosec
	return "s" + strconv.Itoa(int(bitDepth)) + "le"
}

func codecFor(bitDepth types.BitDepth) string {
	if !bitDepth.Valid() {
		return codec
	}

	return "pcm_" + bitDepthToSpec(bitDepth)
}

// durationArg renders a duration the way -t expects it, in seconds.
func durationArg(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
