// Package cutoff locates the low-pass edge of a smoothed log spectrum.
package cutoff

// Defaults tuned against lossy encoder low-pass filters.
const (
	DefaultLookaheadDivisor = 50
	DefaultDrop             = 1.25
	DefaultFlatRatio        = 1.1
)

// Params controls the edge scan.
type Params struct {
	Lookahead int     // distance in bins between the two compared points
	Drop      float64 // log10 drop across Lookahead that marks a cliff
	FlatRatio float64 // ratio to the last bin above which the top band counts as flat
}

// DefaultParams returns the parameters for a spectrum computed from one-second frames at sampleRate.
func DefaultParams(sampleRate int) Params {
	return Params{
		Lookahead: sampleRate / DefaultLookaheadDivisor,
		Drop:      DefaultDrop,
		FlatRatio: DefaultFlatRatio,
	}
}

// Find scans a from the top end downward and returns the bin where energy falls off a cliff,
// or len(a) when there is none.
//
// At each step i (1 <= i < len(a)-Lookahead), closest to the top first:
//   - if a[L-i]/a[L-1] > FlatRatio the top band is flat: no cutoff, return L;
//   - if a[L-i-Lookahead]-a[L-i] > Drop a cliff was found: return L-i-Lookahead.
//
// The flat check wins when both hold. Undefined (NaN) entries never satisfy either condition.
func Find(a []float64, p Params) int {
	n := len(a)
	dx := p.Lookahead

	if n == 0 {
		return 0
	}

	last := a[n-1]

	for i := 1; i < n-dx; i++ {
		high := a[n-i]

		if high/last > p.FlatRatio {
			return n
		}

		if a[n-i-dx]-high > p.Drop {
			return n - i - dx
		}
	}

	return n
}
