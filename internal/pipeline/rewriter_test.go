package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ishankgp/brainstorming-agent/internal/gemini"
)

func TestRewriter_ReturnsNewText(t *testing.T) {
	t.Parallel()

	inv := &fakeInvoker{fn: func(_ context.Context, req gemini.Request) (string, error) {
		assert.True(t, req.Plain, "rewrite requests plain text")
		assert.Contains(t, req.Prompt, "make it shorter")
		return "  How can we win trust faster?\n", nil
	}}

	got := NewRewriter(inv).Rewrite(context.Background(), "How can we win trust?", "brief", "make it shorter")
	assert.Equal(t, "How can we win trust faster?", got)
}

func TestRewriter_DefaultInstruction(t *testing.T) {
	t.Parallel()

	inv := &fakeInvoker{fn: func(_ context.Context, req gemini.Request) (string, error) {
		assert.Contains(t, req.Prompt, "Improve clarity and impact")
		return "better", nil
	}}

	NewRewriter(inv).Rewrite(context.Background(), "orig", "brief", "")
}

func TestRewriter_TruncatesLongBrief(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 2000)
	inv := &fakeInvoker{fn: func(_ context.Context, req gemini.Request) (string, error) {
		assert.NotContains(t, req.Prompt, strings.Repeat("x", 600))
		return "ok", nil
	}}

	NewRewriter(inv).Rewrite(context.Background(), "orig", long, "")
}

func TestRewriter_KeepsOriginalOnFailure(t *testing.T) {
	t.Parallel()

	inv := &fakeInvoker{fn: func(context.Context, gemini.Request) (string, error) {
		return "", errBoom
	}}

	got := NewRewriter(inv).Rewrite(context.Background(), "original statement", "brief", "")
	assert.Equal(t, "original statement", got)
}

func TestRewriter_KeepsOriginalOnEmptyResponse(t *testing.T) {
	t.Parallel()

	inv := &fakeInvoker{fn: func(context.Context, gemini.Request) (string, error) {
		return "   \n", nil
	}}

	got := NewRewriter(inv).Rewrite(context.Background(), "original statement", "brief", "")
	assert.Equal(t, "original statement", got)
}
