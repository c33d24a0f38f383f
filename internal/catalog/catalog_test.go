package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormats_CatalogShape(t *testing.T) {
	t.Parallel()

	all := Formats()
	require.Len(t, all, 12)
	seen := map[FormatID]bool{}
	for _, f := range all {
		assert.False(t, seen[f.ID], "duplicate format id %s", f.ID)
		seen[f.ID] = true
		assert.NotEmpty(t, f.Name)
		assert.Contains(t, f.Template, "How can we")
	}
}

func TestFormatByID(t *testing.T) {
	t.Parallel()

	f, ok := FormatByID(F09)
	require.True(t, ok)
	assert.Equal(t, "Risk-of-Inaction", f.Name)
	assert.Equal(t, "edge-case", f.Category)

	_, ok = FormatByID("F99")
	assert.False(t, ok)
}

func TestParseFormatID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw    string
		want   FormatID
		wantOK bool
	}{
		{"F01", F01, true},
		{" F02 ", F02, true},
		{"F03 - Permission-Giving", F03, true},
		{"F04-Role-Clarification", F04, true},
		{"F12", F12, true},
		{"F99", "F99", false},
		{"", "", false},
		{"Reframing", "Reframing", false},
	}
	for _, tt := range tests {
		got, ok := ParseFormatID(tt.raw)
		assert.Equal(t, tt.want, got, "raw=%q", tt.raw)
		assert.Equal(t, tt.wantOK, ok, "raw=%q", tt.raw)
	}
}

func TestDimensions_CatalogShape(t *testing.T) {
	t.Parallel()

	all := Dimensions()
	require.Len(t, all, 8)

	var high, nonNeg int
	for _, d := range all {
		if d.Weight == WeightHigh {
			high++
		}
		if d.NonNegotiable {
			nonNeg++
		}
	}
	assert.Equal(t, 4, high, "four high-weight dimensions")
	assert.Equal(t, 3, nonNeg, "three non-negotiable dimensions")
}

func TestDimensionByID(t *testing.T) {
	t.Parallel()

	d, ok := DimensionByID(E02)
	require.True(t, ok)
	assert.Equal(t, "Audience Truth", d.Name)
	assert.True(t, d.NonNegotiable)

	_, ok = DimensionByID("E09")
	assert.False(t, ok)
}
