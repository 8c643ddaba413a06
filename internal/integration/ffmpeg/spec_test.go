package ffmpeg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/farcloser/cutoff/internal/types"
)

func TestBitDepthToSpec(t *testing.T) {
	assert.Equal(t, "s16le", bitDepthToSpec(types.Depth16))
	assert.Equal(t, "s24le", bitDepthToSpec(types.Depth24))
	assert.Equal(t, "s32le", bitDepthToSpec(types.Depth32))
}

func TestCodecFor(t *testing.T) {
	assert.Equal(t, "pcm_s16le", codecFor(types.Depth16))
	assert.Equal(t, "pcm_s32le", codecFor(types.Depth32))
	assert.Equal(t, codec, codecFor(0))
}

func TestDurationArg(t *testing.T) {
	assert.Equal(t, "30", durationArg(30*time.Second))
	assert.Equal(t, "1.5", durationArg(1500*time.Millisecond))
}
