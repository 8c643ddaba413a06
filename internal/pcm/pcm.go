// Package pcm turns interleaved integer PCM into normalized single-channel float samples.
package pcm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/cutoff/internal/audit/shared"
	"github.com/farcloser/cutoff/internal/types"
)

// ChannelMix selects the mean of all channels instead of a single one.
const ChannelMix = -1

var (
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")
	ErrInvalidChannels     = errors.New("invalid channel count")
	ErrChannelOutOfRange   = errors.New("channel out of range")
)

// ReadChannel decodes interleaved little-endian PCM from reader and keeps one channel, or the downmix of
// all channels when channel is ChannelMix. Samples are normalized to [-1, 1).
// When maxSamples > 0, reading stops as soon as that many samples have been collected; the rest of the
// stream is left unread. A trailing incomplete frame is discarded.
func ReadChannel(reader io.Reader, format types.PCMFormat, channel, maxSamples int) ([]float64, error) {
	if err := validate(format.BitDepth, int(format.Channels), channel); err != nil { //nolint:gosec // channel count is small
		return nil, err
	}

	frameSize := format.FrameSize()
	buf := make([]byte, frameSize*4096)

	var (
		samples []float64
		pending int
	)

	if maxSamples > 0 {
		samples = make([]float64, 0, maxSamples)
	}

	for {
		n, err := reader.Read(buf[pending:])
		pending += n

		complete := (pending / frameSize) * frameSize
		for offset := 0; offset < complete; offset += frameSize {
			samples = append(samples, frameValue(buf[offset:offset+frameSize], format, channel))

			if maxSamples > 0 && len(samples) >= maxSamples {
				return samples, nil
			}
		}

		pending = copy(buf, buf[complete:pending])

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
		}
	}

	return samples, nil
}

// FromInts extracts one channel (or the downmix) from interleaved integer samples such as a go-audio
// IntBuffer, normalizing by the source bit depth.
func FromInts(data []int, channels, bitDepth, channel, maxSamples int) ([]float64, error) {
	maxVal := shared.MaxValue(bitDepth)
	if maxVal == 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	if err := validate(types.Depth16, channels, channel); err != nil {
		return nil, err
	}

	frames := len(data) / channels
	if maxSamples > 0 && frames > maxSamples {
		frames = maxSamples
	}

	samples := make([]float64, frames)

	for i := range frames {
		frame := data[i*channels : (i+1)*channels]

		if channel != ChannelMix {
			samples[i] = float64(frame[channel]) / maxVal

			continue
		}

		var sum float64
		for _, v := range frame {
			sum += float64(v)
		}

		samples[i] = sum / float64(channels) / maxVal
	}

	return samples, nil
}

func validate(depth types.BitDepth, channels, channel int) error {
	if !depth.Valid() {
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, depth)
	}

	if channels <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}

	if channel != ChannelMix && (channel < 0 || channel >= channels) {
		return fmt.Errorf("%w: %d (have %d)", ErrChannelOutOfRange, channel, channels)
	}

	return nil
}

func frameValue(frame []byte, format types.PCMFormat, channel int) float64 {
	width := format.BitDepth.BytesPerSample()

	if channel != ChannelMix {
		return decodeSample(frame[channel*width:], format.BitDepth)
	}

	var sum float64
	for ch := range int(format.Channels) { //nolint:gosec // channel count is small
		sum += decodeSample(frame[ch*width:], format.BitDepth)
	}

	return sum / float64(format.Channels)
}

func decodeSample(data []byte, depth types.BitDepth) float64 {
	switch depth {
	case types.Depth16:
		return float64(int16(binary.LittleEndian.Uint16(data))) / shared.MaxValue16 //nolint:gosec // two's complement conversion for signed PCM samples
	case types.Depth24:
		raw := int32(data[0]) | int32(data[1])<<8 | int32(data[2])<<16
		if raw&0x800000 != 0 {
			raw |= ^0xFFFFFF
		}

		return float64(raw) / shared.MaxValue24
	case types.Depth32:
		return float64(int32(binary.LittleEndian.Uint32(data))) / shared.MaxValue32 //nolint:gosec // two's complement conversion for signed PCM samples
	default:
		return 0
	}
}
