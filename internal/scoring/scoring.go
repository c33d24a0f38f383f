// Package scoring implements the pure evaluation arithmetic: weighted score
// computation, non-negotiable failure detection, and the recommendation rule.
// No I/O happens here.
package scoring

import (
	"math"

	"github.com/ishankgp/brainstorming-agent/internal/catalog"
	"github.com/ishankgp/brainstorming-agent/internal/model"
)

// proceedThreshold is the minimum total/max ratio for a proceed verdict.
// The boundary is inclusive: exactly 0.70 proceeds.
const proceedThreshold = 0.70

// WeightedScore computes the 0-100 normalized score. High-weight dimensions
// contribute score*3, medium-weight ones score*2. Scores whose dimension id
// is unknown fall back to medium weight, matching the lenient read path.
func WeightedScore(scores []model.DimensionScore) int {
	totalWeighted := 0
	maxWeighted := 0
	for _, s := range scores {
		weight := 2
		if d, ok := catalog.DimensionByID(s.DimensionID); ok && d.Weight == catalog.WeightHigh {
			weight = 3
		}
		totalWeighted += s.Score * weight
		maxWeighted += 5 * weight
	}
	if maxWeighted == 0 {
		return 0
	}
	return int(math.Round(float64(totalWeighted) / float64(maxWeighted) * 100))
}

// TotalScore sums the raw dimension scores.
func TotalScore(scores []model.DimensionScore) int {
	total := 0
	for _, s := range scores {
		total += s.Score
	}
	return total
}

// FailedNonNegotiables returns the names of non-negotiable dimensions scoring
// below 3, in catalog order.
func FailedNonNegotiables(scores []model.DimensionScore) []string {
	byID := make(map[catalog.DimensionID]int, len(scores))
	for _, s := range scores {
		byID[s.DimensionID] = s.Score
	}
	var failed []string
	for _, d := range catalog.Dimensions() {
		if !d.NonNegotiable {
			continue
		}
		if score, ok := byID[d.ID]; ok && score < 3 {
			failed = append(failed, d.Name)
		}
	}
	return failed
}

// Recommend derives the verdict. Any failed non-negotiable rejects outright;
// otherwise total/max at or above the threshold proceeds, below it revises.
func Recommend(scores []model.DimensionScore, failedNonNegotiables []string) model.Recommendation {
	if len(failedNonNegotiables) > 0 {
		return model.Reject
	}
	maxScore := len(scores) * 5
	if maxScore == 0 {
		return model.Revise
	}
	if float64(TotalScore(scores))/float64(maxScore) >= proceedThreshold {
		return model.Proceed
	}
	return model.Revise
}
