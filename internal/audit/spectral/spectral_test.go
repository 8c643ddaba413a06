package spectral_test

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/farcloser/cutoff/internal/audit/frames"
	"github.com/farcloser/cutoff/internal/audit/spectral"
)

func tone(rate, seconds int, freq float64) []float64 {
	out := make([]float64, rate*seconds)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(rate))
	}

	return out
}

func TestWindowIsSymmetricHann(t *testing.T) {
	averager, err := spectral.NewAverager(101, spectral.BackendGonum)
	require.NoError(t, err)

	w := averager.Window()
	require.Len(t, w, 101)
	assert.InDelta(t, 0.0, w[0], 1e-12)
	assert.InDelta(t, 0.0, w[100], 1e-12)
	assert.InDelta(t, 1.0, w[50], 1e-12)

	for k := range w {
		want := 0.5 * (1 - math.Cos(2*math.Pi*float64(k)/100))
		assert.InDelta(t, want, w[k], 1e-12)
	}
}

func TestAverageLengthIndependentOfFrameCount(t *testing.T) {
	const rate = 2000

	second := tone(rate, 1, 440)

	var samples []float64
	for range 30 {
		samples = append(samples, second...)
	}

	averager, err := spectral.NewAverager(rate, spectral.BackendGonum)
	require.NoError(t, err)

	one, err := averager.Average(frames.Extract(samples, rate, 1))
	require.NoError(t, err)

	all, err := averager.Average(frames.Extract(samples, rate, 30))
	require.NoError(t, err)

	assert.Equal(t, 1, one.Frames)
	assert.Equal(t, 30, all.Frames)
	assert.Len(t, one.Log, rate)
	assert.Len(t, all.Log, rate)
	assert.Equal(t, rate, all.FrameLen)

	// Identical frames: the mean equals any single frame.
	assert.InDeltaSlice(t, one.Log, all.Log, 1e-9)
}

func TestAverageWithoutFramesIsAllZero(t *testing.T) {
	averager, err := spectral.NewAverager(44100, spectral.BackendGonum)
	require.NoError(t, err)

	half := make([]float64, 22050)

	spectrum, err := averager.Average(frames.Extract(half, 44100, 0))
	require.NoError(t, err)

	assert.Equal(t, 0, spectrum.Frames)
	require.Len(t, spectrum.Log, 44100)

	for _, v := range spectrum.Log {
		assert.True(t, math.IsInf(v, -1))
	}
}

func TestAveragePackedLayout(t *testing.T) {
	const size = 1000

	averager, err := spectral.NewAverager(size, spectral.BackendGonum)
	require.NoError(t, err)

	constant := make([]float64, size)
	floats.AddConst(1, constant)

	spectrum, err := averager.Average(slices.Values([][]float64{constant}))
	require.NoError(t, err)

	windowSum := floats.Sum(averager.Window())

	// DC carries the window sum; the Hann taper leaks half of it into the real part of bin 1.
	assert.InDelta(t, math.Log10(windowSum), spectrum.Log[0], 1e-9)
	assert.InDelta(t, math.Log10(windowSum/2), spectrum.Log[1], 0.01)
	assert.Less(t, spectrum.Log[2], spectrum.Log[1]-1)
	assert.Less(t, spectrum.Log[size-1], spectrum.Log[0]-5)
}

func TestBackendsAgree(t *testing.T) {
	const size = 1500

	rng := rand.New(rand.NewPCG(7, 11))
	frame := make([]float64, size)

	for i := range frame {
		frame[i] = rng.NormFloat64()
	}

	gonumAverager, err := spectral.NewAverager(size, spectral.BackendGonum)
	require.NoError(t, err)

	dspAverager, err := spectral.NewAverager(size, spectral.BackendGoDSP)
	require.NoError(t, err)

	want, err := gonumAverager.Average(slices.Values([][]float64{frame}))
	require.NoError(t, err)

	got, err := dspAverager.Average(slices.Values([][]float64{frame}))
	require.NoError(t, err)

	assert.Equal(t, spectral.BackendGoDSP, dspAverager.Backend())
	assert.InDeltaSlice(t, want.Log, got.Log, 1e-6)
}

func TestAverageRejectsWrongFrameLength(t *testing.T) {
	averager, err := spectral.NewAverager(100, spectral.BackendGonum)
	require.NoError(t, err)

	_, err = averager.Average(slices.Values([][]float64{make([]float64, 99)}))
	require.Error(t, err)
}

func TestNewAveragerRejectsTinyFrames(t *testing.T) {
	_, err := spectral.NewAverager(1, spectral.BackendGonum)
	require.ErrorIs(t, err, spectral.ErrFrameLength)
}

func TestLogMagnitude(t *testing.T) {
	assert.InDelta(t, 2.0, spectral.LogMagnitude(100), 1e-12)
	assert.InDelta(t, -3.0, spectral.LogMagnitude(0.001), 1e-12)
	assert.True(t, math.IsInf(spectral.LogMagnitude(0), -1))
	assert.True(t, math.IsInf(spectral.LogMagnitude(-4), -1))
}

func TestParseBackend(t *testing.T) {
	backend, err := spectral.ParseBackend("go-dsp")
	require.NoError(t, err)
	assert.Equal(t, spectral.BackendGoDSP, backend)

	backend, err = spectral.ParseBackend("")
	require.NoError(t, err)
	assert.Equal(t, spectral.BackendGonum, backend)
	assert.Equal(t, "gonum", backend.String())

	_, err = spectral.ParseBackend("fftw")
	require.Error(t, err)
}
