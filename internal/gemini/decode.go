package gemini

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeJSON parses a model response into v. The accepted grammar is raw JSON
// optionally wrapped in a markdown code fence with or without a "json"
// language tag. Parse failures are reported, not panicked, so every caller
// can take its fallback path.
func DecodeJSON(raw string, v any) error {
	cleaned := StripFences(raw)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("decode model output: %w", err)
	}
	return nil
}

// StripFences removes a surrounding markdown code fence, if present.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimPrefix(s, "json")
	return strings.TrimSpace(s)
}
