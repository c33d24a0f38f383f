package catalog

// DimensionID identifies one of the eight evaluation dimensions.
type DimensionID string

// Known dimension ids.
const (
	E01 DimensionID = "E01"
	E02 DimensionID = "E02"
	E03 DimensionID = "E03"
	E04 DimensionID = "E04"
	E05 DimensionID = "E05"
	E06 DimensionID = "E06"
	E07 DimensionID = "E07"
	E08 DimensionID = "E08"
)

// Weight is a dimension's weight class.
type Weight string

// Weight classes. High-weight dimensions count 3x in the weighted score,
// medium-weight ones 2x.
const (
	WeightHigh   Weight = "high"
	WeightMedium Weight = "medium"
)

// Dimension describes a single evaluation dimension. NonNegotiable dimensions
// force rejection on their own when scored below 3.
type Dimension struct {
	ID            DimensionID
	Name          string
	Weight        Weight
	NonNegotiable bool
}

var dimensions = [...]Dimension{
	{E01, "Business Relevance", WeightHigh, false},
	{E02, "Audience Truth", WeightHigh, true},
	{E03, "Insight Strength", WeightHigh, false},
	{E04, "Data & Evidence Alignment", WeightMedium, true},
	{E05, "Lifecycle Appropriateness", WeightMedium, false},
	{E06, "Strategic Focus", WeightMedium, false},
	{E07, "Creative Solvability", WeightHigh, true},
	{E08, "Longevity & Scalability", WeightMedium, false},
}

var dimensionIndex = buildDimensionIndex()

func buildDimensionIndex() map[DimensionID]int {
	idx := make(map[DimensionID]int, len(dimensions))
	for i, d := range dimensions {
		idx[d.ID] = i
	}
	return idx
}

// Dimensions returns all dimensions in catalog order.
func Dimensions() []Dimension {
	out := make([]Dimension, len(dimensions))
	copy(out, dimensions[:])
	return out
}

// DimensionByID looks up a dimension. The second return reports whether the
// id is in the catalog.
func DimensionByID(id DimensionID) (Dimension, bool) {
	i, ok := dimensionIndex[id]
	if !ok {
		return Dimension{}, false
	}
	return dimensions[i], true
}
