package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type UserProgressRepo interface {
	Create(dbc dbctx.Context, rows []*types.UserProgress) ([]*types.UserProgress, error)
	ListByUserAndPath(dbc dbctx.Context, userID uuid.UUID, pathID uuid.UUID) ([]*types.UserProgress, error)
	// RaiseForPath lifts every row below percent up to percent in a single
	// conditional update and returns how many rows moved.
	RaiseForPath(dbc dbctx.Context, userID uuid.UUID, pathID uuid.UUID, percent int) (int64, error)
}

type userProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProgressRepo(db *gorm.DB, baseLog *logger.Logger) UserProgressRepo {
	return &userProgressRepo{db: db, log: baseLog.With("repo", "UserProgressRepo")}
}

func (r *userProgressRepo) Create(dbc dbctx.Context, rows []*types.UserProgress) ([]*types.UserProgress, error) {
	if len(rows) == 0 {
		return []*types.UserProgress{}, nil
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		if row.Status == "" {
			row.Status = types.ProgressStatus(row.ProgressPercentage)
		}
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *userProgressRepo) ListByUserAndPath(dbc dbctx.Context, userID uuid.UUID, pathID uuid.UUID) ([]*types.UserProgress, error) {
	var out []*types.UserProgress
	if userID == uuid.Nil || pathID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("user_id = ? AND learning_path_id = ?", userID, pathID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userProgressRepo) RaiseForPath(dbc dbctx.Context, userID uuid.UUID, pathID uuid.UUID, percent int) (int64, error) {
	if userID == uuid.Nil || pathID == uuid.Nil {
		return 0, nil
	}
	percent = min(max(percent, 0), 100)
	status := types.ProgressInProgress
	if percent >= 100 {
		status = types.ProgressCompleted
	}
	res := dbc.DB(r.db).
		Model(&types.UserProgress{}).
		Where("user_id = ? AND learning_path_id = ? AND progress_percentage < ?", userID, pathID, percent).
		Updates(map[string]interface{}{
			"progress_percentage": percent,
			"status":              status,
			"updated_at":          time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
