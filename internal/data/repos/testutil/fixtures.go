package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/learnpath-backend/internal/domain"
)

func SeedPath(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, pathData string) *types.LearningPath {
	tb.Helper()
	if pathData == "" {
		pathData = `{"roadmap":{"schema_version":1,"weeks":[]}}`
	}
	p := &types.LearningPath{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        "Learn Go",
		Status:       types.PathStatusActive,
		TargetSkills: datatypes.JSON([]byte(`["concurrency"]`)),
		PathData:     datatypes.JSON([]byte(pathData)),
		Version:      1,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed path: %v", err)
	}
	return p
}

func SeedProgress(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, pathID uuid.UUID, percent int) *types.UserProgress {
	tb.Helper()
	courseID := uuid.New()
	row := &types.UserProgress{
		ID:                 uuid.New(),
		UserID:             userID,
		LearningPathID:     pathID,
		CourseID:           &courseID,
		ProgressPercentage: percent,
		Status:             types.ProgressStatus(percent),
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed progress: %v", err)
	}
	return row
}
