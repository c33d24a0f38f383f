package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishankgp/brainstorming-agent/internal/catalog"
	"github.com/ishankgp/brainstorming-agent/internal/model"
)

func allScores(score int) []model.DimensionScore {
	var out []model.DimensionScore
	for _, d := range catalog.Dimensions() {
		out = append(out, model.DimensionScore{DimensionID: d.ID, Score: score})
	}
	return out
}

func withScore(scores []model.DimensionScore, id catalog.DimensionID, score int) []model.DimensionScore {
	out := make([]model.DimensionScore, len(scores))
	copy(out, scores)
	for i := range out {
		if out[i].DimensionID == id {
			out[i].Score = score
		}
	}
	return out
}

func TestWeightedScore_AllFives(t *testing.T) {
	t.Parallel()

	// 4 high-weight + 4 medium-weight dimensions, all scoring 5.
	assert.Equal(t, 100, WeightedScore(allScores(5)))
}

func TestWeightedScore_Deterministic(t *testing.T) {
	t.Parallel()

	scores := withScore(allScores(4), catalog.E03, 2)
	first := WeightedScore(scores)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, WeightedScore(scores))
	}
}

func TestWeightedScore_AllFours(t *testing.T) {
	t.Parallel()

	// The evaluator fallback path scores every dimension 4.
	assert.Equal(t, 80, WeightedScore(allScores(4)))
}

func TestWeightedScore_Empty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, WeightedScore(nil))
}

func TestFailedNonNegotiables_CatalogOrder(t *testing.T) {
	t.Parallel()

	scores := withScore(withScore(allScores(5), catalog.E07, 1), catalog.E02, 2)
	failed := FailedNonNegotiables(scores)
	require.Equal(t, []string{"Audience Truth", "Creative Solvability"}, failed)
}

func TestFailedNonNegotiables_IgnoresNegotiableDimensions(t *testing.T) {
	t.Parallel()

	// E01 is high-weight but negotiable; a 1 there must not fail.
	scores := withScore(allScores(5), catalog.E01, 1)
	assert.Empty(t, FailedNonNegotiables(scores))
}

func TestRecommend_RejectOnNonNegotiable(t *testing.T) {
	t.Parallel()

	// Seven fives plus one failing non-negotiable still rejects.
	scores := withScore(allScores(5), catalog.E04, 2)
	failed := FailedNonNegotiables(scores)
	require.NotEmpty(t, failed)
	assert.Equal(t, model.Reject, Recommend(scores, failed))
}

func TestRecommend_ProceedBoundaryInclusive(t *testing.T) {
	t.Parallel()

	// 28/40 is exactly the 0.70 threshold.
	scores := allScores(3)
	scores = withScore(scores, catalog.E01, 5)
	scores = withScore(scores, catalog.E03, 4)
	scores = withScore(scores, catalog.E05, 4)
	require.Equal(t, 28, TotalScore(scores))
	assert.Equal(t, model.Proceed, Recommend(scores, nil))
}

func TestRecommend_ReviseBelowThreshold(t *testing.T) {
	t.Parallel()

	// 27/40 = 0.675 is below the threshold.
	scores := allScores(3)
	scores = withScore(scores, catalog.E01, 5)
	scores = withScore(scores, catalog.E03, 4)
	require.Equal(t, 27, TotalScore(scores))
	assert.Equal(t, model.Revise, Recommend(scores, nil))
}

func TestRecommend_EmptyScores(t *testing.T) {
	t.Parallel()

	assert.Equal(t, model.Revise, Recommend(nil, nil))
}
