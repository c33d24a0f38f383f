// Package pipeline implements the generation-evaluation orchestration: the
// diagnostic classifier, per-format statement generation, eight-dimension
// evaluation, and the streaming orchestrator that fans the work out.
package pipeline

import (
	"github.com/ishankgp/brainstorming-agent/internal/catalog"
	"github.com/ishankgp/brainstorming-agent/internal/model"
)

// EventType discriminates stream events.
type EventType string

// Stream event types, in the order a healthy run emits them: one diagnostic,
// five challenge_result in completion order, one timing_metrics, then exactly
// one terminal complete or error.
const (
	EventDiagnostic      EventType = "diagnostic"
	EventChallengeResult EventType = "challenge_result"
	EventTimingMetrics   EventType = "timing_metrics"
	EventComplete        EventType = "complete"
	EventError           EventType = "error"
)

// Event is one element of the run's progress stream.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// DiagnosticData is the payload of the diagnostic event.
type DiagnosticData struct {
	DiagnosticSummary string                 `json:"diagnostic_summary"`
	DiagnosticPath    []model.DiagnosticStep `json:"diagnostic_path"`
	SelectedFormats   []catalog.FormatID     `json:"selected_formats"`
}

// CompleteData is the payload of the terminal complete event.
type CompleteData struct {
	SessionID string `json:"session_id"`
}

// ErrorData is the payload of the terminal error event.
type ErrorData struct {
	Message string `json:"message"`
}
