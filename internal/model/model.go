// Package model defines the data types shared across the generation pipeline,
// scoring, persistence, and transport layers.
package model

import "github.com/ishankgp/brainstorming-agent/internal/catalog"

// DiagnosticStep is one yes/no judgment from the diagnostic decision tree.
type DiagnosticStep struct {
	Question   string  `json:"question"`
	Answer     string  `json:"answer"` // "yes" or "no"
	Reasoning  string  `json:"reasoning"`
	Confidence float64 `json:"confidence"` // 0.0-1.0
}

// FormatSelection is one format chosen by the diagnostic run.
type FormatSelection struct {
	FormatID  catalog.FormatID `json:"format_id"`
	Reasoning string           `json:"reasoning"`
	Priority  int              `json:"priority"` // 1 (most critical) to 5
}

// DiagnosticResult is the classifier output: the diagnostic path and exactly
// five selected formats.
type DiagnosticResult struct {
	DiagnosticPath    []DiagnosticStep  `json:"diagnostic_path"`
	SelectedFormats   []FormatSelection `json:"selected_formats"`
	DiagnosticSummary string            `json:"diagnostic_summary"`
}

// DimensionScore is a single dimension's score for one statement.
type DimensionScore struct {
	DimensionID catalog.DimensionID `json:"dimension_id"`
	Score       int                 `json:"score"` // 1-5
	Notes       string              `json:"notes"`
	HasRedFlags bool                `json:"has_red_flags"`
}

// Evaluation is the full eight-dimension assessment of one statement.
// Degraded marks evaluations produced by the fallback path rather than a
// genuine model scoring pass.
type Evaluation struct {
	DimensionScores      []DimensionScore `json:"dimension_scores"`
	TotalScore           int              `json:"total_score"`    // 8-40
	WeightedScore        int              `json:"weighted_score"` // 0-100
	PassesNonNegotiables bool             `json:"passes_non_negotiables"`
	FailedNonNegotiables []string         `json:"failed_non_negotiables"`
	Recommendation       Recommendation   `json:"recommendation"`
	DetectedFormatID     catalog.FormatID `json:"detected_format_id"`
	Degraded             bool             `json:"degraded"`
}

// Recommendation is the evaluation verdict for a statement.
type Recommendation string

// Recommendation values.
const (
	Proceed Recommendation = "proceed"
	Revise  Recommendation = "revise"
	Reject  Recommendation = "reject"
)

// Statement is one generated challenge statement with its evaluation.
// Position is 1-5 and unique within a run; a statement is immutable once it
// has been emitted on the stream.
type Statement struct {
	ID             int              `json:"id"`
	Text           string           `json:"text"`
	SelectedFormat catalog.FormatID `json:"selected_format"`
	Reasoning      string           `json:"reasoning"`
	Evaluation     *Evaluation      `json:"evaluation,omitempty"`
	Position       int              `json:"position"`
}

// TimingMetrics reports measured latencies for a completed run.
type TimingMetrics struct {
	TotalLatencyMS int64 `json:"total_latency_ms"`
	DiagnosticMS   int64 `json:"diagnostic_ms"`
	RetrievalMS    int64 `json:"retrieval_ms"`
}

// SessionStatus is the lifecycle state of a stored run.
type SessionStatus string

// Session lifecycle states. A session is immutable once terminal.
const (
	StatusDraft      SessionStatus = "draft"
	StatusGenerating SessionStatus = "generating"
	StatusCompleted  SessionStatus = "completed"
	StatusError      SessionStatus = "error"
)
