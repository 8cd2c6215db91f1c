package roadmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecoversFromProseFenceAndTrailingComma(t *testing.T) {
	text := "Here is your plan:\n```json\n{\"weeks\":[{\"title\":\"W1\",\"goals\":[\"g\"],\"resources\":[]}],}\n```\nEnjoy!"

	got, stage := Parse(text)

	assert.Equal(t, StageBalancedObject, stage)
	require.Len(t, got.Weeks, 1)
	assert.Equal(t, "W1", got.Weeks[0].Title)
	assert.Equal(t, []string{"g"}, got.Weeks[0].Goals)
	assert.Empty(t, got.Weeks[0].Resources)
	assert.NotNil(t, got.Weeks[0].Resources)
}

func TestParseStrictAfterCleaning(t *testing.T) {
	text := "```json\n{“weeks”: [{“title”: “Week 1”, “goals”: [“a”, “b”,], “resources”: [{“type”: “video”, “title”: “Intro”, “url”: “https://react.dev/learn”},]},]}\n```"

	got, stage := Parse(text)

	assert.Equal(t, StageStrict, stage)
	assert.False(t, stage.Degraded())
	require.Len(t, got.Weeks, 1)
	assert.Equal(t, "Week 1", got.Weeks[0].Title)
	assert.Equal(t, []string{"a", "b"}, got.Weeks[0].Goals)
	require.Len(t, got.Weeks[0].Resources, 1)
	assert.Equal(t, Resource{Type: ResourceVideo, Title: "Intro", URL: "https://react.dev/learn"}, got.Weeks[0].Resources[0])
}

func TestParseKeepsQuotesAndCommasInsideStrings(t *testing.T) {
	text := `{"weeks":[{"title":"Say “hi”, } then ]","goals":["a ,]"]}]}`

	got, stage := Parse(text)

	assert.Equal(t, StageStrict, stage)
	require.Len(t, got.Weeks, 1)
	assert.Equal(t, "Say “hi”, } then ]", got.Weeks[0].Title)
	assert.Equal(t, []string{"a ,]"}, got.Weeks[0].Goals)
}

func TestParseBalancedObjectSkipsBracesInStrings(t *testing.T) {
	text := `Sure! {"weeks":[{"title":"uses \"{\" braces }","goals":[]}]} and then {"other": true}`

	got, stage := Parse(text)

	assert.Equal(t, StageBalancedObject, stage)
	require.Len(t, got.Weeks, 1)
	assert.Equal(t, `uses "{" braces }`, got.Weeks[0].Title)
}

func TestParseTotalFailureFallsBackToEmptyShell(t *testing.T) {
	for _, text := range []string{
		"not json at all",
		"",
		`{"weeks": [`,
		`[1, 2, 3]`,
		`"just a string"`,
	} {
		got, stage := Parse(text)
		assert.Equal(t, StageEmptyShell, stage, text)
		assert.True(t, stage.Degraded())
		assert.NotNil(t, got.Weeks, text)
		assert.Empty(t, got.Weeks, text)
	}
}

func TestParseToleratesWrongFieldTypes(t *testing.T) {
	text := `{"weeks":[{"title":7,"goals":["ok",3,null,""],"resources":["x",{"type":"podcast","completed":"yes"}]},"junk"]}`

	got, stage := Parse(text)

	assert.Equal(t, StageStrict, stage)
	require.Len(t, got.Weeks, 2)
	assert.Equal(t, "", got.Weeks[0].Title)
	assert.Equal(t, []string{"ok", ""}, got.Weeks[0].Goals)
	require.Len(t, got.Weeks[0].Resources, 1)
	assert.Equal(t, ResourceType("podcast"), got.Weeks[0].Resources[0].Type)
	assert.False(t, got.Weeks[0].Resources[0].Completed)
	assert.Equal(t, Week{Goals: []string{}, Resources: []Resource{}}, got.Weeks[1])
}

func TestParseWeeksNotAnArray(t *testing.T) {
	got, stage := Parse(`{"weeks": "soon"}`)
	assert.Equal(t, StageStrict, stage)
	assert.Empty(t, got.Weeks)
}
