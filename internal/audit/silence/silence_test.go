package silence_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farcloser/cutoff/internal/audit/silence"
)

const rate = 1000

func sine(n int, amplitude float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*50*float64(i)/rate)
	}

	return out
}

func TestDetectPadding(t *testing.T) {
	samples := make([]float64, 0, 5*rate)
	samples = append(samples, make([]float64, 2*rate)...)
	samples = append(samples, sine(2*rate, 0.5)...)
	samples = append(samples, make([]float64, rate)...)

	result := silence.Detect(samples, rate, silence.DefaultOptions())

	require.Len(t, result.Segments, 2)
	assert.InDelta(t, 2.0, result.LeadingSec, 1e-9)
	assert.InDelta(t, 1.0, result.TrailingSec, 1e-9)
	assert.InDelta(t, 3.0, result.TotalSilence, 1e-9)
	assert.InDelta(t, 5.0, result.TotalDuration, 1e-9)
	assert.InDelta(t, -120.0, result.Segments[0].RmsDb, 1e-9)
	assert.False(t, result.Silent())
}

func TestDetectShortGapsIgnored(t *testing.T) {
	samples := sine(3*rate, 0.5)
	clear(samples[rate : rate+200])

	result := silence.Detect(samples, rate, silence.DefaultOptions())
	assert.Empty(t, result.Segments)
}

func TestDetectAllSilent(t *testing.T) {
	result := silence.Detect(make([]float64, 3*rate), rate, silence.DefaultOptions())
	assert.True(t, result.Silent())

	// Quieter than the threshold counts as silence too.
	result = silence.Detect(sine(2*rate, 1e-4), rate, silence.DefaultOptions())
	assert.True(t, result.Silent())
	assert.InDelta(t, -83.0, result.Segments[0].RmsDb, 0.1)

	// Shorter than the minimum duration but silent throughout.
	result = silence.Detect(make([]float64, rate/2), rate, silence.DefaultOptions())
	assert.True(t, result.Silent())
}

func TestDetectEmpty(t *testing.T) {
	result := silence.Detect(nil, rate, silence.DefaultOptions())
	assert.False(t, result.Silent())
	assert.Empty(t, result.Segments)
}
