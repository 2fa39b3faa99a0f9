// Package vision asks an image model which items sit on a furniture unit.
package vision

import (
	"context"
	"io"
)

// AnalysisPrompt is the shared prompt used by all vision adapters.
const AnalysisPrompt = `List every object you can see stored on this shelf, cabinet or drawer unit.
For each object provide: name, quantity as a whole number, and the shelf row it
sits on counted from the top starting at 1 (leave empty if unclear).
Respond in plain text, one object per line,
format: name | quantity | row`

type Analyzer interface {
	Analyze(ctx context.Context, r io.Reader, mimeType string) (*AnalysisResult, error)
}

type AnalysisResult struct {
	Items       []DetectedItem
	RawResponse string
}

type DetectedItem struct {
	Name     string
	Quantity string
	Row      string
}
