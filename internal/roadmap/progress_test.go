package roadmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func threeResourceWeek(completed bool) Week {
	return Week{
		Title:     "W",
		Completed: completed,
		Resources: []Resource{
			{Type: ResourceVideo, Title: "v"},
			{Type: ResourceArticle, Title: "a"},
			{Type: ResourceExercise, Title: "e"},
		},
	}
}

func TestPercentEmpty(t *testing.T) {
	assert.Equal(t, 0, Percent(Roadmap{Weeks: []Week{}}))
	assert.Equal(t, 0, Percent(Roadmap{}))
}

func TestPercentWeekShortCircuit(t *testing.T) {
	r := Roadmap{Weeks: []Week{threeResourceWeek(true)}}
	assert.Equal(t, 100, Percent(r))
	for _, res := range r.Weeks[0].Resources {
		assert.False(t, res.Completed)
	}
}

func TestPercentUnits(t *testing.T) {
	r := Roadmap{Weeks: []Week{
		{Title: "empty done", Completed: true},
		{Title: "empty open"},
		threeResourceWeek(false),
	}}
	// 5 units, 1 done.
	assert.Equal(t, 20, Percent(r))

	r.Weeks[2].Resources[0].Completed = true
	assert.Equal(t, 40, Percent(r))

	// 1/3 rounds to 33, 2/3 to 67.
	one := Roadmap{Weeks: []Week{threeResourceWeek(false)}}
	one.Weeks[0].Resources[0].Completed = true
	assert.Equal(t, 33, Percent(one))
	one.Weeks[0].Resources[1].Completed = true
	assert.Equal(t, 67, Percent(one))
}

func TestPercentMonotonicUnderCompletion(t *testing.T) {
	r := Enrich(Roadmap{Weeks: []Week{}}, "javascript")
	prev := Percent(r)
	require.Equal(t, 0, prev)
	for wi := range r.Weeks {
		for ri := range r.Weeks[wi].Resources {
			r.Weeks[wi].Resources[ri].Completed = true
			p := Percent(r)
			assert.GreaterOrEqual(t, p, prev)
			assert.LessOrEqual(t, p, 100)
			prev = p
		}
	}
	assert.Equal(t, 100, prev)
}

func TestApplyResourceToggleRaisesWeek(t *testing.T) {
	r := Roadmap{Weeks: []Week{threeResourceWeek(false)}}

	r, err := Apply(r, Mutation{WeekIndex: 0, ResourceIndex: intPtr(0), Completed: true})
	require.NoError(t, err)
	assert.False(t, r.Weeks[0].Completed)

	r, err = Apply(r, Mutation{WeekIndex: 0, ResourceIndex: intPtr(1), Completed: true})
	require.NoError(t, err)
	assert.True(t, r.Weeks[0].Completed, "exercise satisfies the week by being present")
	assert.False(t, r.Weeks[0].Resources[2].Completed)
	assert.Equal(t, 100, Percent(r))

	r, err = Apply(r, Mutation{WeekIndex: 0, ResourceIndex: intPtr(1), Completed: false})
	require.NoError(t, err)
	assert.True(t, r.Weeks[0].Completed, "unchecking a resource keeps the week flag")
	assert.False(t, r.Weeks[0].Resources[1].Completed)
}

func TestApplyResourceToggleKeepsForcedWeek(t *testing.T) {
	r := Roadmap{Weeks: []Week{{
		Title:     "forced",
		Completed: true,
		Resources: []Resource{
			{Type: ResourceVideo, Title: "v"},
			{Type: ResourceArticle, Title: "a"},
			{Type: ResourceVideo, Title: "v2"},
		},
	}}}
	before := Percent(r)
	require.Equal(t, 100, before)

	got, err := ApplyResourceToggle(r, 0, 0, true)
	require.NoError(t, err)
	assert.True(t, got.Weeks[0].Completed)
	assert.GreaterOrEqual(t, Percent(got), before)

	got, err = ApplyResourceToggle(got, 0, 0, false)
	require.NoError(t, err)
	assert.True(t, got.Weeks[0].Completed)
	assert.Equal(t, 100, Percent(got))
}

func TestApplyCompleteWeekWins(t *testing.T) {
	r := Roadmap{Weeks: []Week{threeResourceWeek(false)}}

	got, err := Apply(r, Mutation{WeekIndex: 0, ResourceIndex: intPtr(0), Completed: false, CompleteWeek: true})
	require.NoError(t, err)
	assert.True(t, got.Weeks[0].Completed)
	assert.False(t, r.Weeks[0].Completed, "input must not be mutated")

	got, err = Apply(got, Mutation{WeekIndex: 0, CompleteWeek: true})
	require.NoError(t, err)
	assert.True(t, got.Weeks[0].Completed)
}

func TestApplyCompleteWeekOnEmptyWeek(t *testing.T) {
	r := Roadmap{Weeks: []Week{{Title: "reading week"}}}
	got, err := Apply(r, Mutation{WeekIndex: 0, CompleteWeek: true})
	require.NoError(t, err)
	assert.Equal(t, 100, Percent(got))
}

func TestApplyBounds(t *testing.T) {
	r := Roadmap{Weeks: []Week{threeResourceWeek(false)}}

	_, err := Apply(r, Mutation{WeekIndex: 1, CompleteWeek: true})
	assert.ErrorIs(t, err, ErrWeekOutOfRange)

	_, err = Apply(r, Mutation{WeekIndex: 0, ResourceIndex: intPtr(3), Completed: true})
	assert.ErrorIs(t, err, ErrResourceOutOfRange)

	_, err = Apply(r, Mutation{WeekIndex: -1, CompleteWeek: true})
	assert.ErrorIs(t, err, ErrNegativeIndex)

	_, err = Apply(r, Mutation{WeekIndex: 0, ResourceIndex: intPtr(-2)})
	assert.ErrorIs(t, err, ErrNegativeIndex)

	_, err = Apply(r, Mutation{WeekIndex: 0})
	assert.ErrorIs(t, err, ErrNothingToApply)

	_, err = Apply(Roadmap{Weeks: []Week{}}, Mutation{WeekIndex: 0, CompleteWeek: true})
	assert.ErrorIs(t, err, ErrWeekOutOfRange)

	assert.Equal(t, Roadmap{Weeks: []Week{threeResourceWeek(false)}}, r)
}

func TestApplyResourceOutOfRangeLeavesWeekFlag(t *testing.T) {
	r := Roadmap{Weeks: []Week{threeResourceWeek(false)}}
	got, err := Apply(r, Mutation{WeekIndex: 0, ResourceIndex: intPtr(9), CompleteWeek: true})
	require.ErrorIs(t, err, ErrResourceOutOfRange)
	assert.False(t, got.Weeks[0].Completed)
}
