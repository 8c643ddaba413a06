// Package frames slices a single channel into consecutive one-second frames.
package frames

import "iter"

// DefaultMax caps analysis to the first thirty seconds of audio.
const DefaultMax = 30

// Count returns how many frames Extract yields for the given buffer: whole seconds only, at most maxFrames.
// maxFrames <= 0 selects DefaultMax.
func Count(samples []float64, sampleRate, maxFrames int) int {
	if sampleRate <= 0 {
		return 0
	}

	if maxFrames <= 0 {
		maxFrames = DefaultMax
	}

	return min(len(samples)/sampleRate, maxFrames)
}

// Extract yields non-overlapping frames of exactly sampleRate samples, in order.
// The trailing partial second is never yielded. Frames alias samples and must not be modified.
func Extract(samples []float64, sampleRate, maxFrames int) iter.Seq[[]float64] {
	count := Count(samples, sampleRate, maxFrames)

	return func(yield func([]float64) bool) {
		for t := range count {
			if !yield(samples[t*sampleRate : (t+1)*sampleRate : (t+1)*sampleRate]) {
				return
			}
		}
	}
}
