package types

import "fmt"

type BitDepth uint

const (
	Depth16 BitDepth = 16
	Depth24 BitDepth = 24
	Depth32 BitDepth = 32
)

// Valid reports whether the bit depth is one of the supported signed PCM widths.
func (b BitDepth) Valid() bool {
	return b == Depth16 || b == Depth24 || b == Depth32
}

// BytesPerSample returns the width of one sample of one channel.
func (b BitDepth) BytesPerSample() int {
	return int(b / 8) //nolint:gosec // bit depth is a small constant
}

// PCMFormat describes interleaved, signed, little-endian PCM.
type PCMFormat struct {
	SampleRate int
	BitDepth   BitDepth
	Channels   uint
}

// FrameSize is the byte size of one interleaved frame (one sample for every channel).
func (f PCMFormat) FrameSize() int {
	return f.BitDepth.BytesPerSample() * int(f.Channels) //nolint:gosec // channel count is small
}

func (f PCMFormat) String() string {
	return fmt.Sprintf("%d Hz, %d-bit, %d ch", f.SampleRate, f.BitDepth, f.Channels)
}
