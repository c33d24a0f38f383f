package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishankgp/brainstorming-agent/internal/catalog"
	"github.com/ishankgp/brainstorming-agent/internal/gemini"
)

// fakeInvoker scripts the generation capability for tests.
type fakeInvoker struct {
	fn func(ctx context.Context, req gemini.Request) (string, error)
}

func (f *fakeInvoker) Invoke(ctx context.Context, req gemini.Request) (string, error) {
	return f.fn(ctx, req)
}

func diagnosticJSON(t *testing.T, formatIDs ...string) string {
	t.Helper()
	type sel struct {
		FormatID  string `json:"format_id"`
		Reasoning string `json:"reasoning"`
		Priority  int    `json:"priority"`
	}
	sels := make([]sel, 0, len(formatIDs))
	for i, id := range formatIDs {
		sels = append(sels, sel{FormatID: id, Reasoning: fmt.Sprintf("reason %d", i+1), Priority: i + 1})
	}
	payload := map[string]any{
		"diagnostic_path": []map[string]any{
			{"question": "Is the audience already behaving the way we want?", "answer": "no", "reasoning": "low adoption", "confidence": 0.9},
		},
		"selected_formats":   sels,
		"diagnostic_summary": "Audience hesitates despite awareness.",
	}
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return string(b)
}

func TestClassifier_HappyPath(t *testing.T) {
	t.Parallel()

	inv := &fakeInvoker{fn: func(_ context.Context, req gemini.Request) (string, error) {
		assert.NotNil(t, req.Schema, "diagnostic call is schema-constrained")
		assert.InDelta(t, 0.3, req.Temperature, 0.001)
		return diagnosticJSON(t, "F01", "F03", "F07", "F09", "F12"), nil
	}}

	result := NewClassifier(inv).Classify(context.Background(), "brief")
	require.Len(t, result.SelectedFormats, 5)
	assert.Equal(t, catalog.F01, result.SelectedFormats[0].FormatID)
	assert.Equal(t, catalog.F12, result.SelectedFormats[4].FormatID)
	assert.Len(t, result.DiagnosticPath, 1)
	assert.Equal(t, "Audience hesitates despite awareness.", result.DiagnosticSummary)
}

func TestClassifier_NormalizesSuffixedIDs(t *testing.T) {
	t.Parallel()

	inv := &fakeInvoker{fn: func(context.Context, gemini.Request) (string, error) {
		return diagnosticJSON(t, "F03 - Permission-Giving", "F05-Differentiation", "F07", "F09", "F11"), nil
	}}

	result := NewClassifier(inv).Classify(context.Background(), "brief")
	require.Len(t, result.SelectedFormats, 5)
	assert.Equal(t, catalog.F03, result.SelectedFormats[0].FormatID)
	assert.Equal(t, catalog.F05, result.SelectedFormats[1].FormatID)
}

func TestClassifier_UnknownIDDefaultsToF01(t *testing.T) {
	t.Parallel()

	inv := &fakeInvoker{fn: func(context.Context, gemini.Request) (string, error) {
		return diagnosticJSON(t, "F99", "F02", "F03", "F04", "F05"), nil
	}}

	result := NewClassifier(inv).Classify(context.Background(), "brief")
	require.Len(t, result.SelectedFormats, 5)
	assert.Equal(t, catalog.DefaultFormatID, result.SelectedFormats[0].FormatID)
}

func TestClassifier_PadsShortSelection(t *testing.T) {
	t.Parallel()

	inv := &fakeInvoker{fn: func(context.Context, gemini.Request) (string, error) {
		return diagnosticJSON(t, "F06", "F02"), nil
	}}

	result := NewClassifier(inv).Classify(context.Background(), "brief")
	require.Len(t, result.SelectedFormats, 5)
	assert.Equal(t, catalog.F06, result.SelectedFormats[0].FormatID)
	assert.Equal(t, catalog.F02, result.SelectedFormats[1].FormatID)

	// Padding comes from the catalog in order, skipping already-selected ids.
	assert.Equal(t, catalog.F01, result.SelectedFormats[2].FormatID)
	assert.Equal(t, catalog.F03, result.SelectedFormats[3].FormatID)
	assert.Equal(t, catalog.F04, result.SelectedFormats[4].FormatID)
	for _, sel := range result.SelectedFormats[2:] {
		assert.Equal(t, "Selected as catalog default", sel.Reasoning)
	}
}

func TestClassifier_TruncatesLongSelectionByPriority(t *testing.T) {
	t.Parallel()

	inv := &fakeInvoker{fn: func(context.Context, gemini.Request) (string, error) {
		return diagnosticJSON(t, "F01", "F02", "F03", "F04", "F05", "F06", "F07"), nil
	}}

	result := NewClassifier(inv).Classify(context.Background(), "brief")
	require.Len(t, result.SelectedFormats, 5)
	for i, sel := range result.SelectedFormats {
		assert.Equal(t, i+1, sel.Priority, "lowest priority numbers are kept")
	}
}

func TestClassifier_FallbackOnCallFailure(t *testing.T) {
	t.Parallel()

	inv := &fakeInvoker{fn: func(context.Context, gemini.Request) (string, error) {
		return "", fmt.Errorf("%w: deadline exceeded", gemini.ErrGeneration)
	}}

	result := NewClassifier(inv).Classify(context.Background(), "brief")
	require.Len(t, result.SelectedFormats, 5)
	for _, sel := range result.SelectedFormats {
		assert.Equal(t, catalog.DefaultFormatID, sel.FormatID)
		assert.Equal(t, "Fallback", sel.Reasoning)
		assert.Equal(t, 1, sel.Priority)
	}
	assert.Empty(t, result.DiagnosticPath)
	assert.Equal(t, "Diagnostic analysis unavailable.", result.DiagnosticSummary)
}

func TestClassifier_FallbackOnMalformedOutput(t *testing.T) {
	t.Parallel()

	inv := &fakeInvoker{fn: func(context.Context, gemini.Request) (string, error) {
		return "I could not decide on formats.", nil
	}}

	result := NewClassifier(inv).Classify(context.Background(), "brief")
	require.Len(t, result.SelectedFormats, 5)
	assert.Equal(t, "Diagnostic analysis unavailable.", result.DiagnosticSummary)
}

func TestClassifier_AcceptsFencedOutput(t *testing.T) {
	t.Parallel()

	inv := &fakeInvoker{fn: func(context.Context, gemini.Request) (string, error) {
		return "```json\n" + diagnosticJSON(t, "F01", "F02", "F03", "F04", "F05") + "\n```", nil
	}}

	result := NewClassifier(inv).Classify(context.Background(), "brief")
	require.Len(t, result.SelectedFormats, 5)
	assert.NotEqual(t, "Diagnostic analysis unavailable.", result.DiagnosticSummary)
}

var errBoom = errors.New("boom")
