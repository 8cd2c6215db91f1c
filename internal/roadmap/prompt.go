package roadmap

import (
	"fmt"
	"strings"
)

const DefaultLevel = "beginner"

// Levels are the difficulty values a path may declare.
var Levels = []string{"beginner", "intermediate", "advanced"}

func ValidLevel(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range Levels {
		if s == l {
			return true
		}
	}
	return false
}

type PromptInput struct {
	Topic  string
	Level  string
	Skills []string
}

// BuildPrompt asks the model for a weekly roadmap as bare JSON. Models do not
// reliably honour the format rules, so output still goes through Parse.
func BuildPrompt(in PromptInput) string {
	level := strings.TrimSpace(in.Level)
	if level == "" {
		level = DefaultLevel
	}
	skills := make([]string, 0, len(in.Skills))
	for _, s := range in.Skills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	skillList := strings.Join(skills, ", ")
	if skillList == "" {
		skillList = "none specified"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert instructor. Create a detailed week-by-week learning roadmap as pure JSON (no markdown, no extra text) for the topic: %q.\n", strings.TrimSpace(in.Topic))
	b.WriteString("Requirements:\n")
	b.WriteString("- Return ONLY valid JSON.\n")
	b.WriteString("- Exact structure:\n")
	b.WriteString(`{
  "weeks": [
    {
      "title": "Week 1: ...",
      "goals": ["goal 1", "goal 2", "goal 3"],
      "resources": [
        { "type": "video", "title": "...", "url": "https://..." },
        { "type": "article", "title": "...", "url": "https://..." },
        { "type": "exercise", "title": "..." }
      ]
    }
  ]
}
`)
	b.WriteString(`- The "type" field must be one of: "video", "article", "exercise".` + "\n")
	b.WriteString("- Do not use trailing commas, unquoted keys or code fences.\n")
	b.WriteString("- If you propose URLs, use only trusted sources (MDN, freeCodeCamp, official framework docs, official YouTube channels, web.dev).\n")
	fmt.Fprintf(&b, "Learner profile: level %s, target skills: %s.\n", level, skillList)
	return b.String()
}
