package learning

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/learnpath-backend/internal/data/repos/testutil"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/dbctx"
)

func TestUserProgressRepoRaiseNeverLowers(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.New(ctx)
	repo := NewUserProgressRepo(db, testutil.Logger(t))

	user := uuid.New()
	path := testutil.SeedPath(t, ctx, db, user, "")
	low := testutil.SeedProgress(t, ctx, db, user, path.ID, 10)
	high := testutil.SeedProgress(t, ctx, db, user, path.ID, 80)
	foreign := testutil.SeedProgress(t, ctx, db, uuid.New(), path.ID, 0)

	n, err := repo.RaiseForPath(dbc, user, path.ID, 50)
	if err != nil || n != 1 {
		t.Fatalf("RaiseForPath(50): n=%d err=%v", n, err)
	}

	// Redelivery is a no-op.
	if n, err := repo.RaiseForPath(dbc, user, path.ID, 50); err != nil || n != 0 {
		t.Fatalf("RaiseForPath(50) again: n=%d err=%v", n, err)
	}

	rows, err := repo.ListByUserAndPath(dbc, user, path.ID)
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListByUserAndPath: err=%v len=%d", err, len(rows))
	}
	byID := map[uuid.UUID]*types.UserProgress{}
	for _, r := range rows {
		byID[r.ID] = r
	}
	if got := byID[low.ID]; got.ProgressPercentage != 50 || got.Status != types.ProgressInProgress {
		t.Fatalf("low row = %d/%s", got.ProgressPercentage, got.Status)
	}
	if got := byID[high.ID]; got.ProgressPercentage != 80 {
		t.Fatalf("high row lowered to %d", got.ProgressPercentage)
	}

	if n, err := repo.RaiseForPath(dbc, user, path.ID, 100); err != nil || n != 2 {
		t.Fatalf("RaiseForPath(100): n=%d err=%v", n, err)
	}
	rows, _ = repo.ListByUserAndPath(dbc, user, path.ID)
	for _, r := range rows {
		if r.ProgressPercentage != 100 || r.Status != types.ProgressCompleted {
			t.Fatalf("row %s = %d/%s", r.ID, r.ProgressPercentage, r.Status)
		}
	}

	others, _ := repo.ListByUserAndPath(dbc, foreign.UserID, path.ID)
	if len(others) != 1 || others[0].ProgressPercentage != 0 {
		t.Fatalf("foreign row touched: %+v", others)
	}
}

func TestUserProgressRepoCreateDefaults(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.New(context.Background())
	repo := NewUserProgressRepo(db, testutil.Logger(t))

	row := &types.UserProgress{UserID: uuid.New(), LearningPathID: uuid.New()}
	if _, err := repo.Create(dbc, []*types.UserProgress{row}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if row.ID == uuid.Nil || row.Status != types.ProgressNotStarted {
		t.Fatalf("defaults: id=%v status=%q", row.ID, row.Status)
	}
}
