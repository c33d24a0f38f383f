package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ishankgp/brainstorming-agent/internal/gemini"
	"github.com/ishankgp/brainstorming-agent/internal/logging"
)

// briefExcerptLen bounds how much of the brief the rewrite prompt carries.
const briefExcerptLen = 500

// Rewriter improves an existing statement on request. On failure the original
// text comes back unchanged.
type Rewriter struct {
	invoker gemini.Invoker
	log     zerolog.Logger
}

// NewRewriter creates a rewriter backed by the given capability.
func NewRewriter(invoker gemini.Invoker) *Rewriter {
	return &Rewriter{invoker: invoker, log: logging.Component("rewriter")}
}

// Rewrite returns an improved version of the statement following the
// instruction, or the original text when the call fails.
func (r *Rewriter) Rewrite(ctx context.Context, original, brief, instruction string) string {
	if instruction == "" {
		instruction = "Improve clarity and impact while maintaining the strategic intent."
	}
	excerpt := brief
	if len(excerpt) > briefExcerptLen {
		excerpt = excerpt[:briefExcerptLen] + "..."
	}

	prompt := fmt.Sprintf(`You are an expert pharmaceutical copywriter.

ORIGINAL STATEMENT:
%q

CONTEXT (BRIEF):
%s

USER INSTRUCTION:
%s

Task: Rewrite the statement to be more powerful, concise, and aligned with the instruction.
Return ONLY the new statement text. Do not output anything else.`, original, excerpt, instruction)

	raw, err := r.invoker.Invoke(ctx, gemini.Request{
		Prompt:      prompt,
		Temperature: 0.7,
		Plain:       true,
	})
	if err != nil {
		r.log.Error().Err(err).Msg("rewrite failed, keeping original text")
		return original
	}
	text := strings.TrimSpace(raw)
	if text == "" {
		return original
	}
	return text
}
