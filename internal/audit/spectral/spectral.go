package spectral

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrFrameLength         = errors.New("invalid frame length")
	errFrameLengthMismatch = errors.New("frame length mismatch")
)

// Spectrum is the averaged log10 magnitude spectrum of a file.
//
// Log is in packed real layout: index 0 is DC, then the real and imaginary parts of bin 1, bin 2, and so on,
// so that len(Log) == FrameLen and index i sits at i/2 frame-frequency units (i/2 Hz for one-second frames).
type Spectrum struct {
	Log      []float64
	Frames   int
	FrameLen int
}

// Averager computes averaged log spectra for frames of one fixed length.
// Window coefficients and the FFT plan are built once. An Averager is not safe for concurrent use.
type Averager struct {
	frameLen  int
	backend   Backend
	window    []float64
	windowed  []float64
	transform transformer
}

// NewAverager prepares a Hann window and FFT plan for frames of frameLen samples.
func NewAverager(frameLen int, backend Backend) (*Averager, error) {
	if frameLen < 2 {
		return nil, fmt.Errorf("%w: %d", ErrFrameLength, frameLen)
	}

	transform, err := newTransformer(backend, frameLen)
	if err != nil {
		return nil, err
	}

	coefficients := make([]float64, frameLen)
	floats.AddConst(1, coefficients)

	return &Averager{
		frameLen:  frameLen,
		backend:   backend,
		window:    window.Hann(coefficients),
		windowed:  make([]float64, frameLen),
		transform: transform,
	}, nil
}

// FrameLen returns the frame length this Averager accepts.
func (a *Averager) FrameLen() int {
	return a.frameLen
}

// Backend returns the FFT implementation in use.
func (a *Averager) Backend() Backend {
	return a.backend
}

// Window returns the Hann coefficients. The slice is shared and must not be modified.
func (a *Averager) Window() []float64 {
	return a.window
}

// Average windows every frame, sums the absolute packed spectra and divides by the frame count,
// then takes LogMagnitude of every bin.
// With no frames at all the average is an all-zero spectrum of FrameLen bins (so every bin is -Inf).
func (a *Averager) Average(frames iter.Seq[[]float64]) (*Spectrum, error) {
	sum := make([]float64, a.frameLen)
	count := 0

	for frame := range frames {
		if len(frame) != a.frameLen {
			return nil, fmt.Errorf("%w: got %d samples, want %d", errFrameLengthMismatch, len(frame), a.frameLen)
		}

		floats.MulTo(a.windowed, frame, a.window)
		accumulatePacked(sum, a.transform.coefficients(a.windowed))

		count++
	}

	if count == 0 {
		// Degenerate input (under one second): the zero vector is the average.
		clear(sum)
	} else {
		floats.Scale(1/float64(count), sum)
	}

	logs := make([]float64, len(sum))
	for i, m := range sum {
		logs[i] = LogMagnitude(m)
	}

	slog.Debug("spectral.Average", "frames", count, "bins", len(logs), "backend", a.backend)

	return &Spectrum{
		Log:      logs,
		Frames:   count,
		FrameLen: a.frameLen,
	}, nil
}

// LogMagnitude is log10 extended to the whole real line: zero and negative magnitudes map to -Inf.
func LogMagnitude(x float64) float64 {
	if x > 0 {
		return math.Log10(x)
	}

	return math.Inf(-1)
}

// accumulatePacked adds the absolute values of coeffs to sum in packed real layout.
func accumulatePacked(sum []float64, coeffs []complex128) {
	sum[0] += math.Abs(real(coeffs[0]))

	for k := 1; 2*k-1 < len(sum); k++ {
		sum[2*k-1] += math.Abs(real(coeffs[k]))

		if 2*k < len(sum) {
			sum[2*k] += math.Abs(imag(coeffs[k]))
		}
	}
}
