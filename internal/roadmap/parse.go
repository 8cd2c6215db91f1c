package roadmap

import (
	"encoding/json"
	"strings"
)

// ParseStage records which recovery step produced a parse result.
type ParseStage string

const (
	StageStrict         ParseStage = "strict"
	StageBalancedObject ParseStage = "balanced_object"
	StageEmptyShell     ParseStage = "empty_shell"
)

// Degraded reports whether the text needed more than cleaning to parse.
func (s ParseStage) Degraded() bool { return s != StageStrict }

// Parse recovers a roadmap-shaped value from generative model output. It tries
// the cleaned text as a whole, then the first balanced top-level object in the
// raw text, and finally falls back to an empty roadmap. It never fails.
func Parse(text string) (Roadmap, ParseStage) {
	if obj, ok := decodeObject(cleanModelJSON(text)); ok {
		return fromValue(obj), StageStrict
	}
	if frag := firstBalancedObject(text); frag != "" {
		if obj, ok := decodeObject(cleanModelJSON(frag)); ok {
			return fromValue(obj), StageBalancedObject
		}
	}
	return Roadmap{Weeks: []Week{}}, StageEmptyShell
}

func decodeObject(s string) (map[string]any, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

var fenceReplacer = strings.NewReplacer("```json", "", "```JSON", "", "```", "")

// cleanModelJSON strips code fences, turns curly quotes used as delimiters
// into straight quotes and drops trailing commas before closing brackets.
// Curly quotes inside straight-quoted strings are content and kept as-is.
func cleanModelJSON(s string) string {
	s = fenceReplacer.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	rs := []rune(s)

	inString := false
	smartOpened := false
	escaped := false

	for i := 0; i < len(rs); i++ {
		r := rs[i]

		if inString {
			switch {
			case escaped:
				escaped = false
				b.WriteRune(r)
			case r == '\\':
				escaped = true
				b.WriteRune(r)
			case r == '"':
				inString = false
				b.WriteRune('"')
			case (r == '“' || r == '”') && smartOpened:
				inString = false
				b.WriteRune('"')
			case r == '‘' || r == '’':
				b.WriteRune('\'')
			default:
				b.WriteRune(r)
			}
			continue
		}

		switch r {
		case '"':
			inString, smartOpened = true, false
			b.WriteRune('"')
		case '“', '”':
			inString, smartOpened = true, true
			b.WriteRune('"')
		case '‘', '’':
			b.WriteRune('\'')
		case ',':
			j := i + 1
			for j < len(rs) && isJSONSpace(rs[j]) {
				j++
			}
			if j < len(rs) && (rs[j] == ']' || rs[j] == '}') {
				continue
			}
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isJSONSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\r' || r == '\t'
}

// firstBalancedObject returns the first depth-balanced {...} in s, skipping
// braces inside quoted strings. It returns "" when the object never closes.
func firstBalancedObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
