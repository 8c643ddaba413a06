// Package quality maps a detected cutoff to a bitrate tier label.
package quality

// Unidentifiable is returned when the score clears no tier.
const Unidentifiable = "Unidentifiable"

// ScoreDivisor converts a packed cutoff bin to a score (kHz for one-second frames).
const ScoreDivisor = 2000

// Tier is one row of the lookup table: scores strictly above Threshold get Label.
type Tier struct {
	Threshold float64
	Label     string
}

// Order is significant: the first tier whose threshold the score exceeds wins.
// Source: https://interview.orpheus.network/spectral-analysis.php
//
//nolint:gochecknoglobals // lookup table, effectively const
var tiers = []Tier{
	{22, "Lossless / FLAC"},
	{20.5, "320 kbps"},
	{20, "256 kbps"},
	{19, "192 kbps"},
	{16, "128 kbps"},
	{11, "64 kbps"},
}

// Tiers returns a copy of the table in lookup order.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)

	return out
}

// Score normalizes a cutoff bin.
func Score(cutoff int) float64 {
	return float64(cutoff) / ScoreDivisor
}

// Label returns the label of the first tier the score exceeds, or Unidentifiable.
func Label(score float64) string {
	for _, tier := range tiers {
		if score > tier.Threshold {
			return tier.Label
		}
	}

	return Unidentifiable
}

// Classify scores a cutoff bin and labels it.
func Classify(cutoff int) (float64, string) {
	score := Score(cutoff)

	return score, Label(score)
}

// Rank returns the position of label in the table (0 is best), len(Tiers()) for Unidentifiable,
// and -1 for anything else.
func Rank(label string) int {
	for i, tier := range tiers {
		if tier.Label == label {
			return i
		}
	}

	if label == Unidentifiable {
		return len(tiers)
	}

	return -1
}
