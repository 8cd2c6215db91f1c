package roadmap

import (
	"fmt"
	"strings"
)

var skeletonLabels = []string{"Foundations", "Guided practice", "Small project", "Final project & review"}

var skeletonGoals = []string{"Read the resources", "Take notes", "Practice with exercises"}

// Enricher repairs model output into a roadmap that always satisfies the
// per-week composition rules.
type Enricher struct {
	allow   *Allowlist
	catalog *Catalog
}

func NewEnricher(c *Curated) *Enricher {
	return &Enricher{allow: c.Allowlist, catalog: c.Catalog}
}

// Enrich uses the embedded curated data.
func Enrich(raw Roadmap, topic string) Roadmap {
	return NewEnricher(Default()).Enrich(raw, topic)
}

// Enrich is total and idempotent: enriching its own output changes nothing.
// Completion flags pass through untouched.
func (e *Enricher) Enrich(raw Roadmap, topic string) Roadmap {
	entry, _ := e.catalog.Match(topic)

	if len(raw.Weeks) == 0 {
		return e.skeleton(entry)
	}

	out := Roadmap{SchemaVersion: SchemaVersion, Weeks: make([]Week, 0, len(raw.Weeks))}
	for i, w := range raw.Weeks {
		out.Weeks = append(out.Weeks, e.enrichWeek(w, i, entry))
	}
	return out
}

func (e *Enricher) enrichWeek(w Week, idx int, entry CatalogEntry) Week {
	n := idx + 1

	goals := make([]string, 0, max(len(w.Goals), MinGoalsPerWeek))
	for _, g := range w.Goals {
		if strings.TrimSpace(g) != "" {
			goals = append(goals, g)
		}
	}
	for len(goals) < MinGoalsPerWeek {
		goals = append(goals, fmt.Sprintf("Practical goal %d for week %d", len(goals)+1, n))
	}

	resources := make([]Resource, 0, len(w.Resources)+3)
	for _, r := range w.Resources {
		r.URL = strings.TrimSpace(r.URL)
		if r.URL != "" && !e.allow.IsAllowed(r.URL) {
			continue
		}
		if r.Type == "" || !r.Type.Known() {
			r.Type = ResourceArticle
		}
		if r.Type == ResourceExercise {
			r.URL = ""
		}
		if strings.TrimSpace(r.Title) == "" {
			r.Title = defaultResourceTitle(r.Type, n)
		}
		resources = append(resources, r)
	}

	if !hasType(resources, ResourceVideo) {
		resources = append([]Resource{entry.Videos[0]}, resources...)
	}
	if !hasType(resources, ResourceArticle) {
		resources = append(resources, entry.Articles[0])
	}
	if !hasType(resources, ResourceExercise) {
		resources = append(resources, Resource{
			Type:  ResourceExercise,
			Title: fmt.Sprintf("Exercise: apply what you learned in week %d", n),
		})
	}

	title := w.Title
	if strings.TrimSpace(title) == "" {
		title = fmt.Sprintf("Week %d", n)
	}

	return Week{
		Title:     title,
		Goals:     goals,
		Resources: capResources(resources, MaxResourcesPerWeek),
		Completed: w.Completed,
	}
}

func (e *Enricher) skeleton(entry CatalogEntry) Roadmap {
	out := Roadmap{SchemaVersion: SchemaVersion, Weeks: make([]Week, 0, len(skeletonLabels))}
	for i, label := range skeletonLabels {
		out.Weeks = append(out.Weeks, Week{
			Title: fmt.Sprintf("Week %d: %s", i+1, label),
			Goals: append([]string{}, skeletonGoals...),
			Resources: []Resource{
				entry.Articles[0],
				entry.Videos[0],
				{Type: ResourceExercise, Title: "Practice exercise"},
			},
		})
	}
	return out
}

// capResources keeps at most limit resources. The first video, article and
// exercise always survive; remaining slots go to the earliest other entries.
// Original order is preserved.
func capResources(rs []Resource, limit int) []Resource {
	if len(rs) <= limit {
		return rs
	}
	keep := make([]bool, len(rs))
	kept := 0
	seen := map[ResourceType]bool{}
	for i, r := range rs {
		if !seen[r.Type] {
			seen[r.Type] = true
			keep[i] = true
			kept++
		}
	}
	for i := range rs {
		if kept >= limit {
			break
		}
		if !keep[i] {
			keep[i] = true
			kept++
		}
	}
	out := make([]Resource, 0, limit)
	for i, r := range rs {
		if keep[i] {
			out = append(out, r)
		}
	}
	return out
}

func hasType(rs []Resource, t ResourceType) bool {
	for _, r := range rs {
		if r.Type == t {
			return true
		}
	}
	return false
}

func defaultResourceTitle(t ResourceType, week int) string {
	switch t {
	case ResourceVideo:
		return fmt.Sprintf("Week %d video", week)
	case ResourceExercise:
		return fmt.Sprintf("Week %d exercise", week)
	default:
		return fmt.Sprintf("Week %d reading", week)
	}
}
