// Package catalog holds the closed registries of challenge formats and
// evaluation dimensions. Both tables are fixed at compile time; lookups are
// total and report whether the id is known instead of silently defaulting.
package catalog

import "strings"

// FormatID identifies one of the twelve challenge formats.
type FormatID string

// Known format ids.
const (
	F01 FormatID = "F01"
	F02 FormatID = "F02"
	F03 FormatID = "F03"
	F04 FormatID = "F04"
	F05 FormatID = "F05"
	F06 FormatID = "F06"
	F07 FormatID = "F07"
	F08 FormatID = "F08"
	F09 FormatID = "F09"
	F10 FormatID = "F10"
	F11 FormatID = "F11"
	F12 FormatID = "F12"
)

// DefaultFormatID is substituted when the model returns an id that is not in
// the catalog.
const DefaultFormatID = F01

// Format describes a single challenge statement format.
type Format struct {
	ID       FormatID
	Name     string
	Template string
	Category string
}

var formats = [...]Format{
	{F01, "Core Mindset-Shift", "How can we help [TARGET AUDIENCE] move from [CURRENT MINDSET / BEHAVIOR] to [DESIRED MINDSET / BEHAVIOR], without [KEY FEAR, RISK, OR BARRIER]?", "core"},
	{F02, "Reframing", "How can we reframe [CURRENT BELIEF] as [NEW, MORE EMPOWERING BELIEF]?", "core"},
	{F03, "Permission-Giving", "How can we give [TARGET AUDIENCE] permission to [DESIRED ACTION] without violating their sense of caution or responsibility?", "core"},
	{F04, "Role-Clarification", "How can we clearly define our role in [JOURNEY / DECISION MOMENT] without overreaching beyond our evidence?", "core"},
	{F05, "Differentiation-Through-Restraint", "How can we stand apart by focusing on [SPECIFIC STRENGTH] instead of [CATEGORY NORM]?", "core"},
	{F06, "Simplification", "How can we simplify [COMPLEX DECISION / INFORMATION] so that [TARGET AUDIENCE] can act with confidence?", "core"},
	{F07, "Confidence-Building", "How can we reinforce confidence in [DESIRED DECISION / BEHAVIOR] when [EXTERNAL PRESSURE OR DOUBT] is working against it?", "core"},
	{F08, "Redefining Success", `How can we redefine what "success" looks like in [CATEGORY / CONDITION] beyond [TRADITIONAL METRIC]?`, "core"},
	{F09, "Risk-of-Inaction", "How can we make the cost of not acting visible without resorting to fear or alarmism?", "edge-case"},
	{F10, "Trust-Repair", "How can we rebuild trust in [CATEGORY / BRAND / APPROACH] without defending past assumptions?", "edge-case"},
	{F11, "Paradigm-Shift", "How can we help the audience let go of [OLD PARADIGM] and adopt [NEW PARADIGM] without feeling reckless or irresponsible?", "edge-case"},
	{F12, "Behavior-Maintenance", "How can we help [TARGET AUDIENCE] stay committed to [DESIRED BEHAVIOR] over time, even when urgency fades?", "edge-case"},
}

var formatIndex = buildFormatIndex()

func buildFormatIndex() map[FormatID]int {
	idx := make(map[FormatID]int, len(formats))
	for i, f := range formats {
		idx[f.ID] = i
	}
	return idx
}

// Formats returns all formats in catalog order.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats[:])
	return out
}

// FormatByID looks up a format. The second return reports whether the id is
// in the catalog.
func FormatByID(id FormatID) (Format, bool) {
	i, ok := formatIndex[id]
	if !ok {
		return Format{}, false
	}
	return formats[i], true
}

// ParseFormatID normalizes a raw model-returned id and reports whether the
// normalized value is a known format. The model occasionally appends the
// format name ("F03 - Permission-Giving"); everything after the first space
// or hyphen is dropped.
func ParseFormatID(raw string) (FormatID, bool) {
	s := strings.TrimSpace(raw)
	if i := strings.IndexAny(s, " -"); i >= 0 {
		s = s[:i]
	}
	id := FormatID(s)
	_, ok := formatIndex[id]
	return id, ok
}
