package gemini

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fencedJSONPattern = regexp.MustCompile("(?s)```json\\s*(\\{.*\\}|\\[.*\\])\\s*```")
	bareJSONPattern   = regexp.MustCompile(`(?s)(\{.*\}|\[.*\])`)
)

// ParseJSONObject extracts a JSON object from a model reply. Models often
// wrap JSON in markdown fences or prose despite being told not to, so the
// fenced block is tried first, then the widest brace-delimited span.
// Reports false when no parseable object is found.
func ParseJSONObject(text string) (map[string]any, bool) {
	candidate := strings.TrimSpace(text)
	if candidate == "" {
		return nil, false
	}

	if m := fencedJSONPattern.FindStringSubmatch(candidate); m != nil {
		candidate = m[1]
	} else if m := bareJSONPattern.FindStringSubmatch(candidate); m != nil {
		candidate = m[1]
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(candidate)), &out); err != nil {
		return nil, false
	}
	return out, true
}
