package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/learnpath-backend/internal/data/repos"
	"github.com/yungbote/learnpath-backend/internal/data/repos/testutil"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/observability"
	"github.com/yungbote/learnpath-backend/internal/platform/cache"
	"github.com/yungbote/learnpath-backend/internal/platform/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
	"github.com/yungbote/learnpath-backend/internal/roadmap"
)

type harness struct {
	db      *gorm.DB
	repos   repos.Repos
	cache   *cache.Memory
	metrics *observability.Metrics
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.DB(t)
	return &harness{
		db:      db,
		repos:   repos.New(db, logger.Nop()),
		cache:   cache.NewMemory(),
		metrics: observability.NewMetrics("test"),
	}
}

func (h *harness) seedPath(t *testing.T, userID uuid.UUID, pathData string) *types.LearningPath {
	t.Helper()
	return testutil.SeedPath(t, context.Background(), h.db, userID, pathData)
}

func (h *harness) reload(t *testing.T, id uuid.UUID) *types.LearningPath {
	t.Helper()
	p, err := h.repos.Path.GetByID(dbctx.New(context.Background()), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func (h *harness) storedRoadmap(t *testing.T, id uuid.UUID) roadmap.Roadmap {
	t.Helper()
	doc, err := roadmap.ParseDocument(h.reload(t, id).PathData)
	require.NoError(t, err)
	r, err := doc.Roadmap()
	require.NoError(t, err)
	return r
}

func intPtr(v int) *int { return &v }
