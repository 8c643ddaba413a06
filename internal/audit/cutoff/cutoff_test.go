package cutoff_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/farcloser/cutoff/internal/audit/cutoff"
)

func params(dx int) cutoff.Params {
	return cutoff.Params{Lookahead: dx, Drop: cutoff.DefaultDrop, FlatRatio: cutoff.DefaultFlatRatio}
}

// step builds a spectrum at level high below edge and level low from edge on, with NaN padding at the top.
func step(length, edge, pad int, high, low float64) []float64 {
	out := make([]float64, length)
	for i := range out {
		switch {
		case i >= length-pad:
			out[i] = math.NaN()
		case i < edge:
			out[i] = high
		default:
			out[i] = low
		}
	}

	return out
}

func TestDefaultParams(t *testing.T) {
	p := cutoff.DefaultParams(44100)

	assert.Equal(t, 882, p.Lookahead)
	assert.InDelta(t, 1.25, p.Drop, 0)
	assert.InDelta(t, 1.1, p.FlatRatio, 0)
}

func TestFindCliff(t *testing.T) {
	a := step(1000, 600, 5, 2, -1)

	// The first i where a[L-i-dx] sits below the edge: L-i-dx = 599.
	assert.Equal(t, 599, cutoff.Find(a, params(50)))
}

func TestFindNoCliff(t *testing.T) {
	a := step(1000, 600, 5, 2, 1)

	assert.Equal(t, 1000, cutoff.Find(a, params(50)))
}

func TestFindFlatTopWins(t *testing.T) {
	// Last bin is defined and small; the one before it is large enough to trip the flat check,
	// and a cliff exists at the same step.
	a := step(200, 100, 0, 5, 1)
	a[len(a)-1] = 1
	a[len(a)-2] = 2
	a[len(a)-2-10] = 10

	assert.Equal(t, 200, cutoff.Find(a, params(10)))
}

func TestFindCliffBeforeFlatTop(t *testing.T) {
	a := step(200, 100, 0, 5, 1)
	a[len(a)-1-10] = 10
	a[len(a)-3] = 2

	// Step i=1 finds a[189]-a[199] = 9 before the flat check at i=3 could fire.
	assert.Equal(t, 189, cutoff.Find(a, params(10)))
}

func TestFindIgnoresUndefinedEdges(t *testing.T) {
	a := make([]float64, 100)
	for i := range a {
		a[i] = math.NaN()
	}

	assert.Equal(t, 100, cutoff.Find(a, params(10)))
}

func TestFindNegativeInfinityFloor(t *testing.T) {
	a := step(300, 150, 3, 0, math.Inf(-1))

	assert.Equal(t, 149, cutoff.Find(a, params(20)))

	silent := step(300, 0, 3, 0, math.Inf(-1))
	assert.Equal(t, 300, cutoff.Find(silent, params(20)))
}

func TestFindShortInput(t *testing.T) {
	assert.Equal(t, 0, cutoff.Find(nil, params(10)))
	assert.Equal(t, 5, cutoff.Find([]float64{1, 2, 3, 4, 5}, params(10)))
}
