package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishankgp/brainstorming-agent/internal/catalog"
	"github.com/ishankgp/brainstorming-agent/internal/gemini"
	"github.com/ishankgp/brainstorming-agent/internal/model"
)

func TestStatementGenerator_HappyPath(t *testing.T) {
	t.Parallel()

	inv := &fakeInvoker{fn: func(_ context.Context, req gemini.Request) (string, error) {
		assert.Nil(t, req.Schema)
		assert.InDelta(t, 0.7, req.Temperature, 0.001)
		assert.Contains(t, req.Prompt, "Reframing")
		return `{"text":"How can we reframe caution as confidence?","reasoning_check":"fits"}`, nil
	}}

	sel := model.FormatSelection{FormatID: catalog.F02, Reasoning: "belief barrier", Priority: 1}
	got := NewStatementGenerator(inv).Generate(context.Background(), "brief", sel, nil)
	assert.Equal(t, "How can we reframe caution as confidence?", got.Text)
	assert.Equal(t, catalog.F02, got.FormatID)
}

func TestStatementGenerator_AttachesResearchFiles(t *testing.T) {
	t.Parallel()

	files := []gemini.FileRef{
		{URI: "files/abc", MIMEType: "application/pdf", DisplayName: "trial.pdf"},
		{URI: "files/def", MIMEType: "application/pdf", DisplayName: "survey.pdf"},
	}
	inv := &fakeInvoker{fn: func(_ context.Context, req gemini.Request) (string, error) {
		require.Len(t, req.Files, 2)
		assert.Equal(t, "files/abc", req.Files[0].URI)
		return `{"text":"How can we ground this in the trial data?"}`, nil
	}}

	sel := model.FormatSelection{FormatID: catalog.F04, Reasoning: "evidence", Priority: 2}
	got := NewStatementGenerator(inv).Generate(context.Background(), "brief", sel, files)
	assert.Equal(t, catalog.F04, got.FormatID)
}

func TestStatementGenerator_FallbackOnFailure(t *testing.T) {
	t.Parallel()

	inv := &fakeInvoker{fn: func(context.Context, gemini.Request) (string, error) {
		return "", errBoom
	}}

	sel := model.FormatSelection{FormatID: catalog.F02, Reasoning: "r", Priority: 1}
	got := NewStatementGenerator(inv).Generate(context.Background(), "brief", sel, nil)
	assert.Equal(t, "How can we apply Reframing to this challenge?", got.Text)
	assert.Equal(t, catalog.F02, got.FormatID)
}

func TestStatementGenerator_FallbackOnEmptyText(t *testing.T) {
	t.Parallel()

	inv := &fakeInvoker{fn: func(context.Context, gemini.Request) (string, error) {
		return `{"reasoning_check":"no text field"}`, nil
	}}

	sel := model.FormatSelection{FormatID: catalog.F10, Reasoning: "r", Priority: 1}
	got := NewStatementGenerator(inv).Generate(context.Background(), "brief", sel, nil)
	assert.Equal(t, "How can we apply Trust-Repair to this challenge?", got.Text)
}
