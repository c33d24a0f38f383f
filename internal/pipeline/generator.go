package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ishankgp/brainstorming-agent/internal/catalog"
	"github.com/ishankgp/brainstorming-agent/internal/gemini"
	"github.com/ishankgp/brainstorming-agent/internal/logging"
	"github.com/ishankgp/brainstorming-agent/internal/model"
)

// GeneratedStatement is the generator output for one format.
type GeneratedStatement struct {
	Text     string
	FormatID catalog.FormatID
}

// StatementGenerator produces one challenge statement per selected format.
// It never returns an error: any failure yields a deterministic templated
// fallback so one bad format cannot abort the run.
type StatementGenerator struct {
	invoker gemini.Invoker
	log     zerolog.Logger
}

// NewStatementGenerator creates a generator backed by the given capability.
func NewStatementGenerator(invoker gemini.Invoker) *StatementGenerator {
	return &StatementGenerator{invoker: invoker, log: logging.Component("generator")}
}

// Generate produces a single statement honoring the format's template shape.
// Research files, when present, are attached as extra context on the call.
func (g *StatementGenerator) Generate(ctx context.Context, brief string, sel model.FormatSelection, files []gemini.FileRef) GeneratedStatement {
	format, ok := catalog.FormatByID(sel.FormatID)
	if !ok {
		// Selections are repaired upstream; guard anyway.
		format, _ = catalog.FormatByID(catalog.DefaultFormatID)
	}

	raw, err := g.invoker.Invoke(ctx, gemini.Request{
		Prompt:      buildGenerationPrompt(brief, format, sel.Reasoning),
		Files:       files,
		Temperature: 0.7,
	})
	if err != nil {
		g.log.Error().Err(err).Str("format", string(format.ID)).Msg("statement generation failed, using fallback")
		return fallbackStatement(format)
	}

	var resp struct {
		Text string `json:"text"`
	}
	if err := gemini.DecodeJSON(raw, &resp); err != nil || resp.Text == "" {
		g.log.Error().Err(err).Str("format", string(format.ID)).Msg("statement output unparseable, using fallback")
		return fallbackStatement(format)
	}
	return GeneratedStatement{Text: resp.Text, FormatID: format.ID}
}

func fallbackStatement(format catalog.Format) GeneratedStatement {
	return GeneratedStatement{
		Text:     fmt.Sprintf("How can we apply %s to this challenge?", format.Name),
		FormatID: format.ID,
	}
}

func buildGenerationPrompt(brief string, format catalog.Format, reasoning string) string {
	return fmt.Sprintf(`You are an expert pharmaceutical brand strategist. Generate a strategic challenge statement for a marketing brief.

MARKETING BRIEF:
%s

SELECTED FORMAT:
ID: %s
Name: %s
Template: %s
Reasoning: %s

Task: Generate ONE high-quality challenge statement using this format.

1. "How can we..." question applying the template.
2. Specific to the brand/audience in the brief.
3. If research documents are provided, cite or use them implicitly to ground the challenge.

Return JSON:
{
  "text": "How can we...",
  "reasoning_check": "Short self-check on why this fits..."
}`, brief, format.ID, format.Name, format.Template, reasoning)
}
