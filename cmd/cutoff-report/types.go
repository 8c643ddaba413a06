//nolint:tagliatelle
package main

import "github.com/farcloser/cutoff/internal/integration/tags"

// Record is a single line in the JSONL report file.
type Record struct {
	File      string         `json:"file,omitempty"`
	Analysis  map[string]any `json:"analysis,omitempty"`
	Container *tags.Info     `json:"container,omitempty"`
	Decoder   string         `json:"decoder,omitempty"`
	// Suspect marks a lossless container whose spectrum says otherwise.
	Suspect bool          `json:"suspect,omitempty"`
	Error   string        `json:"error,omitempty"`
	Timing  *RecordTiming `json:"timing,omitempty"`
}

// RecordTiming captures per-file processing durations in milliseconds.
type RecordTiming struct {
	DecodeMs  float64 `json:"decode_ms"`
	AnalyzeMs float64 `json:"analyze_ms"`
	TotalMs   float64 `json:"total_ms"`
}

// digestRecord holds the typed fields needed by the digest command.
type digestRecord struct {
	File      string          `json:"file,omitempty"`
	Analysis  *digestAnalysis `json:"analysis,omitempty"`
	Container *tags.Info      `json:"container,omitempty"`
	Suspect   bool            `json:"suspect,omitempty"`
	Error     string          `json:"error,omitempty"`
}

type digestAnalysis struct {
	Score      float64 `json:"score"`
	Label      string  `json:"label"`
	Degenerate bool    `json:"degenerate"`
	Silent     bool    `json:"silent"`
}

// labelTally counts tracks per quality label for the digest.
type labelTally struct {
	Label string
	Count int
}
