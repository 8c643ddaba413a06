// Package smooth implements the centered moving average applied to log spectra.
package smooth

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultDivisor sizes the window at one hundredth of the sample rate.
const DefaultDivisor = 100

// Window returns the moving average length for a sample rate: sampleRate / divisor.
// divisor <= 0 selects DefaultDivisor.
func Window(sampleRate, divisor int) int {
	if divisor <= 0 {
		divisor = DefaultDivisor
	}

	return sampleRate / divisor
}

// MovingAverage convolves values with a w-tap box kernel in valid mode, then pads the front with w/2 undefined
// markers (NaN) and the back with w-w/2 markers. The result holds len(values)+1 entries.
// Each output is a direct sum over its window so that -Inf inputs yield -Inf rather than NaN.
func MovingAverage(values []float64, w int) []float64 {
	if w < 1 {
		w = 1
	}

	lead := w / 2
	trail := w - lead

	valid := max(len(values)-w+1, 0)
	out := make([]float64, 0, lead+valid+trail)

	for range lead {
		out = append(out, math.NaN())
	}

	for i := range valid {
		out = append(out, floats.Sum(values[i:i+w])/float64(w))
	}

	for range trail {
		out = append(out, math.NaN())
	}

	return out
}

// IsUndefined reports whether v is a padding marker.
func IsUndefined(v float64) bool {
	return math.IsNaN(v)
}
