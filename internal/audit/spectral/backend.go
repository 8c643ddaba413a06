package spectral

import (
	"errors"
	"fmt"

	dspfft "github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Backend selects the FFT implementation used by an Averager.
type Backend int

const (
	BackendGonum Backend = iota // gonum dsp/fourier (FFTPACK port), the default.
	BackendGoDSP                // mjibson/go-dsp, Bluestein for non power-of-two lengths.
)

var errUnknownBackend = errors.New("unknown fft backend")

func (b Backend) String() string {
	switch b {
	case BackendGonum:
		return "gonum"
	case BackendGoDSP:
		return "go-dsp"
	}

	return "unknown"
}

// ParseBackend converts a backend name to a Backend value.
func ParseBackend(s string) (Backend, error) {
	switch s {
	case "gonum", "":
		return BackendGonum, nil
	case "go-dsp", "godsp":
		return BackendGoDSP, nil
	default:
		return 0, fmt.Errorf("%w %q (valid: gonum, go-dsp)", errUnknownBackend, s)
	}
}

// transformer returns at least len(seq)/2+1 coefficients of the real-input DFT of seq.
// The returned slice may be reused by the next call.
type transformer interface {
	coefficients(seq []float64) []complex128
}

func newTransformer(backend Backend, size int) (transformer, error) {
	switch backend {
	case BackendGonum:
		return &gonumTransformer{
			fft: fourier.NewFFT(size),
			dst: make([]complex128, size/2+1),
		}, nil
	case BackendGoDSP:
		return godspTransformer{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", errUnknownBackend, backend)
	}
}

type gonumTransformer struct {
	fft *fourier.FFT
	dst []complex128
}

func (t *gonumTransformer) coefficients(seq []float64) []complex128 {
	t.dst = t.fft.Coefficients(t.dst, seq)

	return t.dst
}

type godspTransformer struct{}

func (godspTransformer) coefficients(seq []float64) []complex128 {
	return dspfft.FFTReal(seq)
}
