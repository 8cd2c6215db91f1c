package roadmap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertComposition(t *testing.T, r Roadmap) {
	t.Helper()
	allow := Default().Allowlist
	require.NotEmpty(t, r.Weeks)
	for i, w := range r.Weeks {
		assert.NotEmpty(t, w.Title, "week %d title", i)
		assert.GreaterOrEqual(t, len(w.Goals), MinGoalsPerWeek, "week %d goals", i)
		assert.LessOrEqual(t, len(w.Resources), MaxResourcesPerWeek, "week %d resources", i)
		assert.True(t, hasType(w.Resources, ResourceVideo), "week %d video", i)
		assert.True(t, hasType(w.Resources, ResourceArticle), "week %d article", i)
		assert.True(t, hasType(w.Resources, ResourceExercise), "week %d exercise", i)
		for _, res := range w.Resources {
			assert.True(t, res.Type.Known(), "week %d type %q", i, res.Type)
			assert.NotEmpty(t, res.Title)
			if res.URL != "" {
				assert.True(t, allow.IsAllowed(res.URL), "week %d url %q", i, res.URL)
			}
			if res.Type == ResourceExercise {
				assert.Empty(t, res.URL)
			}
		}
	}
}

func enrichInputs() map[string]Roadmap {
	return map[string]Roadmap{
		"empty":      {Weeks: []Week{}},
		"bare weeks": {Weeks: []Week{{}, {Title: "  "}}},
		"mixed": {Weeks: []Week{{
			Title: "Intro",
			Goals: []string{"", "learn", "   "},
			Resources: []Resource{
				{Type: "video", Title: "Bad", URL: "http://evil.example/x"},
				{Type: "article", Title: "Also bad", URL: "https://not-allowed.example/x"},
				{Type: "podcast", Title: "Listen", URL: "https://dev.to/a"},
				{Title: "untyped"},
				{Type: "exercise", URL: "https://react.dev/learn", Completed: true},
			},
		}}},
		"overfull": {Weeks: []Week{{
			Goals: []string{"a", "b", "c", "d", "e"},
			Resources: []Resource{
				{Type: "article", Title: "a1", URL: "https://web.dev/a1"},
				{Type: "article", Title: "a2", URL: "https://web.dev/a2"},
				{Type: "article", Title: "a3", URL: "https://web.dev/a3"},
				{Type: "article", Title: "a4", URL: "https://web.dev/a4"},
				{Type: "article", Title: "a5", URL: "https://web.dev/a5"},
				{Type: "article", Title: "a6", URL: "https://web.dev/a6"},
				{Type: "exercise", Title: "ex"},
			},
			Completed: true,
		}}},
	}
}

func TestEnrichMinimumComposition(t *testing.T) {
	for name, in := range enrichInputs() {
		t.Run(name, func(t *testing.T) {
			assertComposition(t, Enrich(in, "javascript"))
		})
	}
}

func TestEnrichIsIdempotent(t *testing.T) {
	for name, in := range enrichInputs() {
		for _, topic := range []string{"javascript", "react", "unknown topic", ""} {
			t.Run(fmt.Sprintf("%s/%s", name, topic), func(t *testing.T) {
				once := Enrich(in, topic)
				twice := Enrich(once, topic)
				assert.Equal(t, once, twice)
			})
		}
	}
}

func TestEnrichDropsDisallowedLinks(t *testing.T) {
	got := Enrich(enrichInputs()["mixed"], "javascript")
	w := got.Weeks[0]

	for _, res := range w.Resources {
		assert.NotEqual(t, "http://evil.example/x", res.URL)
		assert.NotEqual(t, "https://not-allowed.example/x", res.URL)
	}

	js := Default().Catalog.Fallback()
	require.Len(t, w.Resources, 4)
	assert.Equal(t, js.Videos[0], w.Resources[0])
	assert.Equal(t, Resource{Type: ResourceArticle, Title: "Listen", URL: "https://dev.to/a"}, w.Resources[1])
	assert.Equal(t, Resource{Type: ResourceArticle, Title: "untyped"}, w.Resources[2])
	assert.Equal(t, Resource{Type: ResourceExercise, Title: "Week 1 exercise", Completed: true}, w.Resources[3])
}

func TestEnrichGoalsPaddedNotTruncated(t *testing.T) {
	got := Enrich(enrichInputs()["mixed"], "javascript")
	assert.Equal(t, []string{"learn", "Practical goal 2 for week 1", "Practical goal 3 for week 1"}, got.Weeks[0].Goals)

	got = Enrich(enrichInputs()["overfull"], "javascript")
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, got.Weeks[0].Goals)
}

func TestEnrichCapKeepsGuaranteedTypes(t *testing.T) {
	got := Enrich(enrichInputs()["overfull"], "react")
	w := got.Weeks[0]

	react, ok := Default().Catalog.Match("react")
	require.True(t, ok)
	require.Len(t, w.Resources, 5)
	assert.Equal(t, react.Videos[0], w.Resources[0])
	assert.Equal(t, "a1", w.Resources[1].Title)
	assert.Equal(t, "a2", w.Resources[2].Title)
	assert.Equal(t, "a3", w.Resources[3].Title)
	assert.Equal(t, "ex", w.Resources[4].Title)
	assert.True(t, w.Completed)
	assert.Equal(t, "Week 1", w.Title)
}

func TestEnrichEmptyBuildsSkeleton(t *testing.T) {
	got := Enrich(Roadmap{Weeks: []Week{}}, "inteligencia artificial")
	ai, _ := Default().Catalog.Match("inteligencia artificial")

	require.Len(t, got.Weeks, 4)
	assert.Equal(t, "Week 1: Foundations", got.Weeks[0].Title)
	assert.Equal(t, "Week 2: Guided practice", got.Weeks[1].Title)
	assert.Equal(t, "Week 3: Small project", got.Weeks[2].Title)
	assert.Equal(t, "Week 4: Final project & review", got.Weeks[3].Title)
	for _, w := range got.Weeks {
		assert.Equal(t, []string{"Read the resources", "Take notes", "Practice with exercises"}, w.Goals)
		require.Len(t, w.Resources, 3)
		assert.Equal(t, ai.Articles[0], w.Resources[0])
		assert.Equal(t, ai.Videos[0], w.Resources[1])
		assert.Equal(t, Resource{Type: ResourceExercise, Title: "Practice exercise"}, w.Resources[2])
		assert.False(t, w.Completed)
	}
	assert.Equal(t, 0, Percent(got))
}

func TestEnrichDoesNotAliasInput(t *testing.T) {
	in := Roadmap{Weeks: []Week{{Title: "T", Resources: []Resource{{Type: "", Title: "x"}}}}}
	_ = Enrich(in, "javascript")
	assert.Equal(t, ResourceType(""), in.Weeks[0].Resources[0].Type)
}
