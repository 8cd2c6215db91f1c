package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/learnpath-backend/internal/data/repos"
	"github.com/yungbote/learnpath-backend/internal/platform/apierr"
	"github.com/yungbote/learnpath-backend/internal/platform/cache"
	"github.com/yungbote/learnpath-backend/internal/platform/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
	"github.com/yungbote/learnpath-backend/internal/platform/textgen"
	"github.com/yungbote/learnpath-backend/internal/roadmap"
)

const plannedWeeks = "Here is your plan:\n```json\n" +
	`{"weeks":[{"title":"Closures","goals":["scope","hoisting"],"resources":[` +
	`{"type":"video","title":"Closures talk","url":"https://www.youtube.com/watch?v=abc"},` +
	`{"type":"article","title":"Shady","url":"https://not-allowed.example/x"}]}],}` +
	"\n```\nEnjoy!"

func fixedText(text string) textgen.Generator {
	return textgen.Func(func(context.Context, string) (string, error) { return text, nil })
}

func TestGenerateRecoversProseWrappedOutput(t *testing.T) {
	h := newHarness(t)
	user := uuid.New()
	path := h.seedPath(t, user, `{"roadmap":{"weeks":[]},"notes":{"pinned":true},"difficulty":"advanced"}`)

	var prompt string
	gen := textgen.Func(func(_ context.Context, p string) (string, error) {
		prompt = p
		return plannedWeeks, nil
	})
	svc := NewRoadmapGenerationService(logger.Nop(), h.repos.Path, gen, nil, h.cache, h.metrics)

	res, err := svc.Generate(context.Background(), user, path.ID, "javascript")
	require.NoError(t, err)

	assert.Contains(t, prompt, `"javascript"`)
	assert.Contains(t, prompt, "level advanced")
	assert.Contains(t, prompt, "concurrency")

	assert.Equal(t, roadmap.StageBalancedObject, res.Stage)
	require.Len(t, res.Roadmap.Weeks, 1)
	week := res.Roadmap.Weeks[0]
	assert.Equal(t, "Closures", week.Title)
	assert.Len(t, week.Goals, 3)
	for _, r := range week.Resources {
		assert.NotEqual(t, "https://not-allowed.example/x", r.URL)
	}
	assert.Equal(t, 0, res.Percent)
	assert.Equal(t, 2, res.Version)

	stored := h.reload(t, path.ID)
	assert.True(t, stored.GeneratedByAI)
	doc, err := roadmap.ParseDocument(stored.PathData)
	require.NoError(t, err)
	assert.True(t, doc.Has("notes"))
	assert.Equal(t, "advanced", doc.Difficulty())
	assert.Equal(t, res.Roadmap, h.storedRoadmap(t, path.ID))
}

func TestGenerateMalformedOutputFallsBackToSkeleton(t *testing.T) {
	h := newHarness(t)
	user := uuid.New()
	path := h.seedPath(t, user, "")
	svc := NewRoadmapGenerationService(logger.Nop(), h.repos.Path, fixedText("I cannot answer in JSON, sorry"), nil, h.cache, h.metrics)

	res, err := svc.Generate(context.Background(), user, path.ID, "javascript")
	require.NoError(t, err)
	assert.Equal(t, roadmap.StageEmptyShell, res.Stage)
	require.Len(t, res.Roadmap.Weeks, 4)
	assert.Equal(t, 0, roadmap.Percent(h.storedRoadmap(t, path.ID)))
}

func TestSkeletonRoadmapCompletesMonotonically(t *testing.T) {
	h := newHarness(t)
	user := uuid.New()
	path := h.seedPath(t, user, "")
	ctx := context.Background()
	gen := NewRoadmapGenerationService(logger.Nop(), h.repos.Path, fixedText("{not json at all"), nil, h.cache, h.metrics)
	progress := NewRoadmapProgressService(logger.Nop(), h.repos.Path, h.repos.UserProgress, h.cache, h.metrics)

	res, err := gen.Generate(ctx, user, path.ID, "javascript")
	require.NoError(t, err)
	stored := h.storedRoadmap(t, path.ID)
	require.NotEmpty(t, stored.Weeks)
	for i, w := range stored.Weeks {
		assert.GreaterOrEqual(t, len(w.Goals), roadmap.MinGoalsPerWeek, "week %d goals", i)
		assert.LessOrEqual(t, len(w.Resources), roadmap.MaxResourcesPerWeek, "week %d resources", i)
		kinds := map[roadmap.ResourceType]bool{}
		for _, r := range w.Resources {
			kinds[r.Type] = true
		}
		assert.True(t, kinds[roadmap.ResourceVideo], "week %d video", i)
		assert.True(t, kinds[roadmap.ResourceArticle], "week %d article", i)
		assert.True(t, kinds[roadmap.ResourceExercise], "week %d exercise", i)
	}
	prev := roadmap.Percent(stored)
	require.Equal(t, 0, prev)
	require.Equal(t, 0, res.Percent)

	// A forced week must not be undone by later toggles inside it.
	last := len(stored.Weeks) - 1
	out, err := progress.Apply(ctx, user, path.ID, roadmap.Mutation{WeekIndex: last, CompleteWeek: true})
	require.NoError(t, err)
	assert.Greater(t, out.Percent, prev)
	prev = out.Percent

	for wi, w := range stored.Weeks {
		for ri, r := range w.Resources {
			if r.Type == roadmap.ResourceExercise {
				continue
			}
			out, err := progress.Apply(ctx, user, path.ID, roadmap.Mutation{WeekIndex: wi, ResourceIndex: intPtr(ri), Completed: true})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, out.Percent, prev, "week %d resource %d", wi, ri)
			prev = out.Percent
		}
	}
	assert.Equal(t, 100, prev)
	for i, w := range h.storedRoadmap(t, path.ID).Weeks {
		assert.True(t, w.Completed, "week %d", i)
	}
}

func TestGenerateTopicDefaultsToTitle(t *testing.T) {
	h := newHarness(t)
	user := uuid.New()
	path := h.seedPath(t, user, "")

	var prompt string
	gen := textgen.Func(func(_ context.Context, p string) (string, error) {
		prompt = p
		return `{"weeks":[]}`, nil
	})
	svc := NewRoadmapGenerationService(logger.Nop(), h.repos.Path, gen, nil, nil, nil)
	_, err := svc.Generate(context.Background(), user, path.ID, "   ")
	require.NoError(t, err)
	assert.Contains(t, prompt, `"Learn Go"`)
	assert.Contains(t, prompt, "level "+roadmap.DefaultLevel)
}

func TestGenerateFailureLeavesRoadmapUntouched(t *testing.T) {
	h := newHarness(t)
	user := uuid.New()
	seeded := `{"roadmap":{"schema_version":1,"weeks":[{"title":"Keep me","goals":[],"resources":[],"completed":true}]}}`
	path := h.seedPath(t, user, seeded)

	gen := textgen.Func(func(context.Context, string) (string, error) {
		return "", errors.New("upstream 503")
	})
	svc := NewRoadmapGenerationService(logger.Nop(), h.repos.Path, gen, nil, h.cache, h.metrics)

	_, err := svc.Generate(context.Background(), user, path.ID, "")
	require.ErrorIs(t, err, apierr.ErrGenerationFailed)

	stored := h.reload(t, path.ID)
	assert.Equal(t, seeded, string(stored.PathData))
	assert.Equal(t, 1, stored.Version)
}

func TestGenerateRejectsForeignAndMissingPaths(t *testing.T) {
	h := newHarness(t)
	owner := uuid.New()
	path := h.seedPath(t, owner, "")
	called := false
	gen := textgen.Func(func(context.Context, string) (string, error) {
		called = true
		return "{}", nil
	})
	svc := NewRoadmapGenerationService(logger.Nop(), h.repos.Path, gen, nil, h.cache, h.metrics)

	_, err := svc.Generate(context.Background(), uuid.New(), path.ID, "")
	assert.ErrorIs(t, err, apierr.ErrNotFoundOrForbidden)
	_, err = svc.Generate(context.Background(), owner, uuid.New(), "")
	assert.ErrorIs(t, err, apierr.ErrNotFoundOrForbidden)
	_, err = svc.Generate(context.Background(), uuid.Nil, path.ID, "")
	assert.ErrorIs(t, err, apierr.ErrUnauthenticated)
	assert.False(t, called)
}

func TestGenerateInvalidatesCacheAfterPersist(t *testing.T) {
	h := newHarness(t)
	user := uuid.New()
	path := h.seedPath(t, user, "")
	ctx := context.Background()
	for _, k := range cache.PathKeys(user.String(), path.ID.String()) {
		require.NoError(t, h.cache.Set(ctx, k, []byte("stale")))
	}

	svc := NewRoadmapGenerationService(logger.Nop(), h.repos.Path, fixedText(`{"weeks":[]}`), nil, h.cache, h.metrics)
	_, err := svc.Generate(ctx, user, path.ID, "react")
	require.NoError(t, err)
	for _, k := range cache.PathKeys(user.String(), path.ID.String()) {
		assert.False(t, h.cache.Has(k), k)
	}
}

func TestGenerateSurvivesCacheOutage(t *testing.T) {
	h := newHarness(t)
	user := uuid.New()
	path := h.seedPath(t, user, "")
	h.cache.Fail = errors.New("redis down")

	svc := NewRoadmapGenerationService(logger.Nop(), h.repos.Path, fixedText(`{"weeks":[]}`), nil, h.cache, h.metrics)
	_, err := svc.Generate(context.Background(), user, path.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 2, h.reload(t, path.ID).Version)
}

// racingPathRepo lets a concurrent writer slip in before the first write.
type racingPathRepo struct {
	repos.PathRepo
	raced bool
}

func (r *racingPathRepo) UpdatePathData(dbc dbctx.Context, id uuid.UUID, expectedVersion int, doc []byte, updates map[string]interface{}) (int, error) {
	if !r.raced {
		r.raced = true
		if _, err := r.PathRepo.UpdatePathData(dbc, id, expectedVersion, []byte(`{"roadmap":{"weeks":[]},"concurrent":"kept"}`), nil); err != nil {
			return 0, err
		}
	}
	return r.PathRepo.UpdatePathData(dbc, id, expectedVersion, doc, updates)
}

func TestGenerateRemergesAfterVersionConflict(t *testing.T) {
	h := newHarness(t)
	user := uuid.New()
	path := h.seedPath(t, user, "")

	calls := 0
	gen := textgen.Func(func(context.Context, string) (string, error) {
		calls++
		return `{"weeks":[{"title":"Only"}]}`, nil
	})
	paths := &racingPathRepo{PathRepo: h.repos.Path}
	svc := NewRoadmapGenerationService(logger.Nop(), paths, gen, nil, h.cache, h.metrics)

	res, err := svc.Generate(context.Background(), user, path.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 3, res.Version)

	doc, err := roadmap.ParseDocument(h.reload(t, path.ID).PathData)
	require.NoError(t, err)
	assert.True(t, doc.Has("concurrent"))
	r, err := doc.Roadmap()
	require.NoError(t, err)
	require.Len(t, r.Weeks, 1)
	assert.Equal(t, "Only", r.Weeks[0].Title)
}
