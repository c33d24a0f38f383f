package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/ishankgp/brainstorming-agent/internal/catalog"
	"github.com/ishankgp/brainstorming-agent/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	faintStyle  = lipgloss.NewStyle().Faint(true)

	recommendationStyles = map[model.Recommendation]lipgloss.Style{
		model.Proceed: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		model.Revise:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		model.Reject:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
)

// renderMarkdown renders markdown for the terminal, falling back to the raw
// text when the renderer is unavailable.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func formatName(id catalog.FormatID) string {
	if f, ok := catalog.FormatByID(id); ok {
		return f.Name
	}
	return string(id)
}

func statementMarkdown(st model.Statement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Statement %d: %s\n\n", st.Position, formatName(st.SelectedFormat))
	fmt.Fprintf(&b, "> %s\n\n", st.Text)
	if st.Reasoning != "" {
		fmt.Fprintf(&b, "**Why this format:** %s\n\n", st.Reasoning)
	}
	if st.Evaluation != nil {
		b.WriteString(evaluationMarkdown(*st.Evaluation))
	}
	return b.String()
}

func evaluationMarkdown(ev model.Evaluation) string {
	var b strings.Builder
	b.WriteString("| Dimension | Score | Notes |\n|---|---|---|\n")
	for _, ds := range ev.DimensionScores {
		name := string(ds.DimensionID)
		if d, ok := catalog.DimensionByID(ds.DimensionID); ok {
			name = d.Name
		}
		fmt.Fprintf(&b, "| %s | %d/5 | %s |\n", name, ds.Score, ds.Notes)
	}
	fmt.Fprintf(&b, "\n**Weighted score:** %d/100 (%s)\n", ev.WeightedScore, ev.Recommendation)
	if len(ev.FailedNonNegotiables) > 0 {
		fmt.Fprintf(&b, "\n**Failed non-negotiables:** %s\n", strings.Join(ev.FailedNonNegotiables, ", "))
	}
	if ev.Degraded {
		b.WriteString("\n_Scores are defaults; the evaluation call did not succeed._\n")
	}
	return b.String()
}

func renderRecommendation(rec model.Recommendation) string {
	if style, ok := recommendationStyles[rec]; ok {
		return style.Render(string(rec))
	}
	return string(rec)
}
