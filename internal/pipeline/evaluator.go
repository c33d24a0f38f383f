package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ishankgp/brainstorming-agent/internal/catalog"
	"github.com/ishankgp/brainstorming-agent/internal/gemini"
	"github.com/ishankgp/brainstorming-agent/internal/logging"
	"github.com/ishankgp/brainstorming-agent/internal/model"
	"github.com/ishankgp/brainstorming-agent/internal/scoring"
)

// Evaluator scores a statement on all eight dimensions and classifies its
// best-fit format in a single model call. It never returns an error: any
// failure yields DefaultEvaluation, which is explicitly marked degraded.
type Evaluator struct {
	invoker gemini.Invoker
	log     zerolog.Logger
}

// NewEvaluator creates an evaluator backed by the given capability.
func NewEvaluator(invoker gemini.Invoker) *Evaluator {
	return &Evaluator{invoker: invoker, log: logging.Component("evaluator")}
}

// evaluationResponse mirrors the raw model output.
type evaluationResponse struct {
	DetectedFormatID string `json:"detected_format_id"`
	Scores           []struct {
		DimensionID string `json:"dimension_id"`
		Score       int    `json:"score"`
		Notes       string `json:"notes"`
		HasRedFlags bool   `json:"has_red_flags"`
	} `json:"scores"`
}

// Evaluate scores the statement against the brief. The returned evaluation
// always carries exactly one score per catalog dimension, each in [1,5].
func (e *Evaluator) Evaluate(ctx context.Context, statementText, brief string, includeResearch bool) model.Evaluation {
	raw, err := e.invoker.Invoke(ctx, gemini.Request{
		Prompt:      buildEvaluationPrompt(statementText, brief),
		Temperature: 0.3,
	})
	if err != nil {
		e.log.Error().Err(err).Msg("evaluation call failed, using default evaluation")
		return DefaultEvaluation()
	}

	var resp evaluationResponse
	if err := gemini.DecodeJSON(raw, &resp); err != nil {
		e.log.Error().Err(err).Msg("evaluation output unparseable, using default evaluation")
		return DefaultEvaluation()
	}

	scores := e.repairScores(resp)
	failed := scoring.FailedNonNegotiables(scores)
	detected, ok := catalog.ParseFormatID(resp.DetectedFormatID)
	if !ok {
		detected = catalog.DefaultFormatID
	}

	return model.Evaluation{
		DimensionScores:      scores,
		TotalScore:           scoring.TotalScore(scores),
		WeightedScore:        scoring.WeightedScore(scores),
		PassesNonNegotiables: len(failed) == 0,
		FailedNonNegotiables: failed,
		Recommendation:       scoring.Recommend(scores, failed),
		DetectedFormatID:     detected,
		Degraded:             false,
	}
}

// repairScores enforces one score per catalog dimension in catalog order.
// Unknown dimension ids are dropped, missing ones filled with a neutral 4,
// and out-of-range scores clamped to [1,5].
func (e *Evaluator) repairScores(resp evaluationResponse) []model.DimensionScore {
	byID := make(map[catalog.DimensionID]model.DimensionScore, len(resp.Scores))
	for _, s := range resp.Scores {
		id := catalog.DimensionID(strings.TrimSpace(s.DimensionID))
		if _, ok := catalog.DimensionByID(id); !ok {
			e.log.Warn().Str("dimension_id", s.DimensionID).Msg("unknown dimension id in evaluation, dropping")
			continue
		}
		byID[id] = model.DimensionScore{
			DimensionID: id,
			Score:       clampScore(s.Score),
			Notes:       s.Notes,
			HasRedFlags: s.HasRedFlags,
		}
	}

	out := make([]model.DimensionScore, 0, len(catalog.Dimensions()))
	for _, d := range catalog.Dimensions() {
		if s, ok := byID[d.ID]; ok {
			out = append(out, s)
			continue
		}
		e.log.Warn().Str("dimension_id", string(d.ID)).Msg("dimension missing from evaluation, filling neutral score")
		out = append(out, model.DimensionScore{DimensionID: d.ID, Score: 4, Notes: "Auto-generated score"})
	}
	return out
}

func clampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 5 {
		return 5
	}
	return score
}

// DefaultEvaluation is the fallback when scoring fails: every dimension at 4,
// total 32, weighted 80, proceed. Degraded is set so callers can tell this
// apart from a genuine positive evaluation.
func DefaultEvaluation() model.Evaluation {
	dims := catalog.Dimensions()
	scores := make([]model.DimensionScore, 0, len(dims))
	for _, d := range dims {
		scores = append(scores, model.DimensionScore{
			DimensionID: d.ID,
			Score:       4,
			Notes:       "Auto-generated score",
		})
	}
	return model.Evaluation{
		DimensionScores:      scores,
		TotalScore:           32,
		WeightedScore:        80,
		PassesNonNegotiables: true,
		FailedNonNegotiables: []string{},
		Recommendation:       model.Proceed,
		DetectedFormatID:     catalog.DefaultFormatID,
		Degraded:             true,
	}
}

func buildEvaluationPrompt(statementText, brief string) string {
	var dimensionLines strings.Builder
	for _, d := range catalog.Dimensions() {
		fmt.Fprintf(&dimensionLines, "%s - %s (Weight: %s, Critical: %t)\n", d.ID, d.Name, d.Weight, d.NonNegotiable)
	}
	var formatLines strings.Builder
	for _, f := range catalog.Formats() {
		fmt.Fprintf(&formatLines, "%s - %s\n", f.ID, f.Name)
	}

	return fmt.Sprintf(`You are evaluating a strategic challenge statement on 8 dimensions and identifying its format.

CHALLENGE STATEMENT:
%s

ORIGINAL BRIEF:
%s

DIMENSIONS TO EVALUATE (score 1-5 each):
%s
FORMATS TO CLASSIFY AGAINST:
%s
Instructions:
1. Classification: Identify which Challenge Format (F01-F12) this statement best matches.
2. Evaluation: Score each dimension from 1 (poor) to 5 (excellent).
   - Provide brief notes explaining the score.
   - Flag if any critical red flags are present.

Return ONLY valid JSON (no markdown):
{
  "detected_format_id": "F01",
  "scores": [
    {
      "dimension_id": "E01",
      "score": 4,
      "notes": "Brief explanation...",
      "has_red_flags": false
    }
  ]
}`, statementText, brief, dimensionLines.String(), formatLines.String())
}
