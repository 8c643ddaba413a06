package cutoff_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"

	"github.com/farcloser/cutoff"
	"github.com/farcloser/cutoff/internal/audit/quality"
	"github.com/farcloser/cutoff/internal/audit/spectral"
	"github.com/farcloser/cutoff/internal/types"
)

const rate = 44100

func whiteNoise(sampleRate, seconds int, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	out := make([]float64, sampleRate*seconds)
	for i := range out {
		out[i] = 0.1 * rng.NormFloat64()
	}

	return out
}

// bandLimited synthesizes noise with a brick-wall low-pass at cutoffHz, built in the frequency domain
// so nothing at all remains above the edge.
func bandLimited(sampleRate, seconds int, cutoffHz float64, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d))

	n := sampleRate * seconds
	edge := int(cutoffHz * float64(seconds))

	coeffs := make([]complex128, n/2+1)
	for k := 1; k <= edge && k < len(coeffs); k++ {
		coeffs[k] = complex(rng.NormFloat64(), rng.NormFloat64())
	}

	out := fourier.NewFFT(n).Sequence(nil, coeffs)

	peak := math.Max(floats.Max(out), -floats.Min(out))
	floats.Scale(0.5/peak, out)

	return out
}

func TestWhiteNoiseIsLossless(t *testing.T) {
	result, err := cutoff.Analyze(whiteNoise(rate, 10, 1), rate, cutoff.DefaultOptions())
	require.NoError(t, err)

	assert.True(t, result.NoCutoff())
	assert.Equal(t, rate+1, result.CutoffBin)
	assert.Equal(t, rate+1, result.SpectrumLen)
	assert.Equal(t, 10, result.Frames)
	assert.False(t, result.Degenerate)
	assert.False(t, result.Silent)
	assert.InDelta(t, 22.0505, result.Score, 1e-9)
	assert.Equal(t, "Lossless / FLAC", result.Label)
}

// A lone sine has no broadband floor: the falloff of its own Hann leakage skirt is the first sustained drop,
// so the cutoff lands just above the tone instead of at the top of the band.
func TestPureToneCutsOffAtItsSkirt(t *testing.T) {
	lookahead := rate / 50

	for _, hz := range []float64{440, 1000} {
		samples := make([]float64, rate*10)
		for i := range samples {
			samples[i] = 0.5 * math.Sin(2*math.Pi*hz*float64(i)/rate)
		}

		result, err := cutoff.Analyze(samples, rate, cutoff.DefaultOptions())
		require.NoError(t, err)

		assert.False(t, result.NoCutoff())
		assert.GreaterOrEqual(t, result.CutoffBin, int(2*hz))
		assert.LessOrEqual(t, result.CutoffBin, int(2*hz)+lookahead)
		assert.Equal(t, quality.Unidentifiable, result.Label)
	}
}

func TestBandLimitedNoise(t *testing.T) {
	lookahead := rate / 50

	for _, tc := range []struct {
		hz    float64
		label string
	}{
		{12000, "64 kbps"},
		{17000, "128 kbps"},
		{19500, "192 kbps"},
	} {
		t.Run(quality.Label(tc.hz/1000), func(t *testing.T) {
			result, err := cutoff.Analyze(bandLimited(rate, 10, tc.hz, 3), rate, cutoff.DefaultOptions())
			require.NoError(t, err)

			edge := int(2 * tc.hz)

			assert.False(t, result.NoCutoff())
			assert.GreaterOrEqual(t, result.CutoffBin, edge)
			assert.LessOrEqual(t, result.CutoffBin, edge+lookahead)
			assert.InDelta(t, tc.hz, result.CutoffHz(), float64(lookahead)/2)
			assert.Equal(t, tc.label, result.Label)
		})
	}
}

func TestShortInputIsDegenerate(t *testing.T) {
	half := make([]float64, rate/2)

	first, err := cutoff.Analyze(half, rate, cutoff.DefaultOptions())
	require.NoError(t, err)

	second, err := cutoff.Analyze(half, rate, cutoff.DefaultOptions())
	require.NoError(t, err)

	assert.True(t, first.Degenerate)
	assert.True(t, first.Silent)
	assert.Equal(t, 0, first.Frames)
	assert.Equal(t, rate+1, first.CutoffBin)
	assert.Equal(t, "Lossless / FLAC", first.Label)
	assert.Equal(t, first, second)
}

func TestDigitalSilenceFindsNoCutoff(t *testing.T) {
	result, err := cutoff.Analyze(make([]float64, 2*rate), rate, cutoff.DefaultOptions())
	require.NoError(t, err)

	assert.False(t, result.Degenerate)
	assert.Equal(t, 2, result.Frames)
	assert.True(t, result.NoCutoff())
	assert.True(t, result.Silent)
}

func TestMaxFrames(t *testing.T) {
	const low = 8000

	samples := whiteNoise(low, 31, 5)

	result, err := cutoff.Analyze(samples, low, cutoff.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 30, result.Frames)

	opts := cutoff.DefaultOptions()
	opts.MaxFrames = 5

	result, err = cutoff.Analyze(samples, low, opts)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Frames)
	assert.True(t, result.NoCutoff())
	assert.Equal(t, low+1, result.SpectrumLen)
}

func TestZeroOptionsUseDefaults(t *testing.T) {
	samples := bandLimited(rate, 3, 17000, 9)

	want, err := cutoff.Analyze(samples, rate, cutoff.DefaultOptions())
	require.NoError(t, err)

	got, err := cutoff.Analyze(samples, rate, cutoff.Options{})
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, cutoff.DefaultOptions(), cutoff.NewAnalyzer(cutoff.Options{}).Options())
}

func TestInvalidSampleRate(t *testing.T) {
	for _, sampleRate := range []int{0, -44100, 99} {
		_, err := cutoff.Analyze(make([]float64, 1000), sampleRate, cutoff.DefaultOptions())
		require.ErrorIs(t, err, cutoff.ErrInvalidSampleRate)
	}

	_, err := cutoff.AnalyzeReader(bytes.NewReader(nil),
		types.PCMFormat{SampleRate: 0, BitDepth: types.Depth16, Channels: 1}, cutoff.DefaultOptions())
	require.ErrorIs(t, err, cutoff.ErrInvalidSampleRate)
}

func TestAnalyzerReuseAcrossRates(t *testing.T) {
	analyzer := cutoff.NewAnalyzer(cutoff.DefaultOptions())

	for _, sampleRate := range []int{rate, 48000, rate} {
		result, err := analyzer.Analyze(whiteNoise(sampleRate, 2, 13), sampleRate)
		require.NoError(t, err)
		assert.Equal(t, sampleRate, result.SampleRate)
		assert.Equal(t, sampleRate+1, result.SpectrumLen)
		assert.True(t, result.NoCutoff())
	}
}

func TestAnalyzeReaderPicksChannel(t *testing.T) {
	left := whiteNoise(rate, 5, 21)
	right := bandLimited(rate, 5, 17000, 22)

	var buf bytes.Buffer
	for i := range left {
		for _, v := range []float64{left[i], right[i]} {
			_ = binary.Write(&buf, binary.LittleEndian, int32(v*math.MaxInt32))
		}
	}

	format := types.PCMFormat{SampleRate: rate, BitDepth: types.Depth32, Channels: 2}

	opts := cutoff.DefaultOptions()

	result, err := cutoff.AnalyzeReader(bytes.NewReader(buf.Bytes()), format, opts)
	require.NoError(t, err)
	assert.Equal(t, "Lossless / FLAC", result.Label)
	assert.Equal(t, 5, result.Frames)

	opts.Channel = 1

	result, err = cutoff.AnalyzeReader(bytes.NewReader(buf.Bytes()), format, opts)
	require.NoError(t, err)
	assert.Equal(t, "128 kbps", result.Label)
}

func TestGoDSPBackend(t *testing.T) {
	opts := cutoff.DefaultOptions()
	opts.Backend = spectral.BackendGoDSP

	result, err := cutoff.Analyze(whiteNoise(rate, 3, 17), rate, opts)
	require.NoError(t, err)
	assert.Equal(t, "Lossless / FLAC", result.Label)

	result, err = cutoff.Analyze(bandLimited(rate, 3, 17000, 18), rate, opts)
	require.NoError(t, err)
	assert.Equal(t, "128 kbps", result.Label)
}
