package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/ishankgp/brainstorming-agent/internal/catalog"
	"github.com/ishankgp/brainstorming-agent/internal/gemini"
	"github.com/ishankgp/brainstorming-agent/internal/logging"
	"github.com/ishankgp/brainstorming-agent/internal/model"
)

// selectedFormatCount is the number of formats every diagnostic run yields.
const selectedFormatCount = 5

// Classifier runs the diagnostic decision tree over a brief and selects five
// challenge formats. It never returns an error: call or parse failures yield
// a fixed fallback result, and malformed selections are repaired in place
// (lenient policy: unknown ids default, short lists pad from the catalog,
// long lists truncate by priority).
type Classifier struct {
	invoker gemini.Invoker
	log     zerolog.Logger
}

// NewClassifier creates a classifier backed by the given generation capability.
func NewClassifier(invoker gemini.Invoker) *Classifier {
	return &Classifier{invoker: invoker, log: logging.Component("classifier")}
}

var diagnosticSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"diagnostic_path": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"question":   {Type: genai.TypeString},
					"answer":     {Type: genai.TypeString},
					"reasoning":  {Type: genai.TypeString},
					"confidence": {Type: genai.TypeNumber},
				},
				Required: []string{"question", "answer", "reasoning", "confidence"},
			},
		},
		"selected_formats": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"format_id": {Type: genai.TypeString},
					"reasoning": {Type: genai.TypeString},
					"priority":  {Type: genai.TypeInteger},
				},
				Required: []string{"format_id", "reasoning", "priority"},
			},
		},
		"diagnostic_summary": {Type: genai.TypeString},
	},
	Required: []string{"diagnostic_path", "selected_formats", "diagnostic_summary"},
}

// diagnosticResponse mirrors the raw model output before id normalization.
type diagnosticResponse struct {
	DiagnosticPath  []model.DiagnosticStep `json:"diagnostic_path"`
	SelectedFormats []struct {
		FormatID  string `json:"format_id"`
		Reasoning string `json:"reasoning"`
		Priority  int    `json:"priority"`
	} `json:"selected_formats"`
	DiagnosticSummary string `json:"diagnostic_summary"`
}

// Classify analyzes the brief and returns the diagnostic path plus exactly
// five selected formats.
func (c *Classifier) Classify(ctx context.Context, brief string) model.DiagnosticResult {
	raw, err := c.invoker.Invoke(ctx, gemini.Request{
		Prompt:      buildDiagnosticPrompt(brief),
		Schema:      diagnosticSchema,
		Temperature: 0.3,
	})
	if err != nil {
		c.log.Error().Err(err).Msg("diagnostic call failed, using fallback")
		return fallbackDiagnostic()
	}

	var resp diagnosticResponse
	if err := gemini.DecodeJSON(raw, &resp); err != nil {
		c.log.Error().Err(err).Msg("diagnostic output unparseable, using fallback")
		return fallbackDiagnostic()
	}

	return model.DiagnosticResult{
		DiagnosticPath:    resp.DiagnosticPath,
		SelectedFormats:   c.repairSelections(resp),
		DiagnosticSummary: resp.DiagnosticSummary,
	}
}

// repairSelections normalizes ids and enforces the exactly-five invariant.
func (c *Classifier) repairSelections(resp diagnosticResponse) []model.FormatSelection {
	selections := make([]model.FormatSelection, 0, len(resp.SelectedFormats))
	for _, sf := range resp.SelectedFormats {
		id, ok := catalog.ParseFormatID(sf.FormatID)
		if !ok {
			c.log.Warn().Str("format_id", sf.FormatID).Msg("unknown format id, substituting default")
			id = catalog.DefaultFormatID
		}
		selections = append(selections, model.FormatSelection{
			FormatID:  id,
			Reasoning: sf.Reasoning,
			Priority:  sf.Priority,
		})
	}

	switch {
	case len(selections) > selectedFormatCount:
		c.log.Warn().Int("count", len(selections)).Msg("too many formats selected, truncating by priority")
		sort.SliceStable(selections, func(i, j int) bool { return selections[i].Priority < selections[j].Priority })
		selections = selections[:selectedFormatCount]
	case len(selections) < selectedFormatCount:
		c.log.Warn().Int("count", len(selections)).Msg("too few formats selected, padding from catalog")
		selections = padSelections(selections)
	}
	return selections
}

// padSelections fills the selection up to five entries with catalog formats
// that are not already selected, in catalog order.
func padSelections(selections []model.FormatSelection) []model.FormatSelection {
	chosen := make(map[catalog.FormatID]bool, len(selections))
	for _, s := range selections {
		chosen[s.FormatID] = true
	}
	for _, f := range catalog.Formats() {
		if len(selections) == selectedFormatCount {
			break
		}
		if chosen[f.ID] {
			continue
		}
		selections = append(selections, model.FormatSelection{
			FormatID:  f.ID,
			Reasoning: "Selected as catalog default",
			Priority:  len(selections) + 1,
		})
		chosen[f.ID] = true
	}
	return selections
}

// fallbackDiagnostic is the static result used when the model call fails
// outright: five copies of the default format and no diagnostic path.
func fallbackDiagnostic() model.DiagnosticResult {
	selections := make([]model.FormatSelection, selectedFormatCount)
	for i := range selections {
		selections[i] = model.FormatSelection{
			FormatID:  catalog.DefaultFormatID,
			Reasoning: "Fallback",
			Priority:  1,
		}
	}
	return model.DiagnosticResult{
		DiagnosticPath:    []model.DiagnosticStep{},
		SelectedFormats:   selections,
		DiagnosticSummary: "Diagnostic analysis unavailable.",
	}
}

func buildDiagnosticPrompt(brief string) string {
	var formatLines strings.Builder
	for _, f := range catalog.Formats() {
		fmt.Fprintf(&formatLines, "%s - %s: %s\n", f.ID, f.Name, f.Template)
	}

	return fmt.Sprintf(`You are an expert pharmaceutical marketing strategist. Analyze this marketing brief using a diagnostic decision tree, then select the most appropriate challenge statement formats.

## TASK 1: Diagnostic Decision Tree

Answer these questions about the brief. Follow the tree structure:

**Q1: Is the audience already behaving the way we want?**
- Look for: adoption, current usage, established behaviors, existing prescribing patterns
- Answer: "yes" or "no"
- Provide: reasoning (2-3 sentences) + confidence (0.0-1.0)

**Q2 [If Q1=yes]: Is this behavior at risk of eroding?**
- Look for: declining usage, competitive pressure, doubts, market share loss
- Answer: "yes" or "no"
- Provide: reasoning + confidence

**Q3 [If Q1=no]: Does the audience know what to do, but hesitate emotionally or professionally?**
- Look for: fear, risk concerns, professional barriers, hesitation, reluctance
- Answer: "yes" or "no"
- Provide: reasoning + confidence

**Q4 [If Q3=no]: Is the primary barrier a dominant belief or mental model?**
- Look for: beliefs, perceptions, mindsets, mental models, assumptions
- Answer: "yes" or "no"
- Provide: reasoning + confidence

**Q5 [If Q4=no]: Is the audience overwhelmed or paralyzed by complexity?**
- Look for: complexity, confusion, information overload, decision paralysis
- Answer: "yes" or "no"
- Provide: reasoning + confidence

## TASK 2: Format Selection

Based on your diagnostic analysis, select EXACTLY 5 challenge formats from this list:

%s
Selection criteria:
1. **Relevance**: Format must address the identified barriers/opportunities
2. **Priority**: Rank formats 1-5 (1=most critical, 5=least critical)
3. **Reasoning**: Explain why each format is appropriate for this brief

## MARKETING BRIEF:
%s

## OUTPUT FORMAT:
Return structured JSON with:
- diagnostic_path: Array of Q&A objects (question, answer, reasoning, confidence)
- selected_formats: Array of exactly 5 format objects (format_id, reasoning, priority)
- diagnostic_summary: 2-3 sentence summary of the analysis

Be specific and cite evidence from the brief in your reasoning.`, formatLines.String(), brief)
}
