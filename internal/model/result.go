package model

import "time"

// AnalysisResult is what one analysis of a ledger file produces.
type AnalysisResult struct {
	Summary     Summary   `json:"summary"`
	GeneratedAt time.Time `json:"generated_at"`

	// Raw holds the balance tool's original output for diagnostics.
	// It is never reparsed and never serialized to clients.
	Raw string `json:"-"`
}
