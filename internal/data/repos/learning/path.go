package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/apierr"
	"github.com/yungbote/learnpath-backend/internal/platform/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type PathRepo interface {
	Create(dbc dbctx.Context, rows []*types.LearningPath) ([]*types.LearningPath, error)

	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LearningPath, error)
	// GetOwned returns nil when the path is missing or belongs to someone else.
	GetOwned(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) (*types.LearningPath, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.LearningPath, error)

	// UpdatePathData replaces the document only if the stored version still
	// equals expectedVersion, and returns the new version.
	UpdatePathData(dbc dbctx.Context, id uuid.UUID, expectedVersion int, doc []byte, updates map[string]interface{}) (int, error)

	SoftDelete(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) (bool, error)
}

type pathRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPathRepo(db *gorm.DB, baseLog *logger.Logger) PathRepo {
	return &pathRepo{db: db, log: baseLog.With("repo", "PathRepo")}
}

func (r *pathRepo) Create(dbc dbctx.Context, rows []*types.LearningPath) ([]*types.LearningPath, error) {
	if len(rows) == 0 {
		return []*types.LearningPath{}, nil
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		if row.Status == "" {
			row.Status = types.PathStatusActive
		}
		if row.Version <= 0 {
			row.Version = 1
		}
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *pathRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LearningPath, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.LearningPath
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *pathRepo) GetOwned(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) (*types.LearningPath, error) {
	if id == uuid.Nil || userID == uuid.Nil {
		return nil, nil
	}
	var out []*types.LearningPath
	if err := dbc.DB(r.db).
		Where("id = ? AND user_id = ?", id, userID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *pathRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.LearningPath, error) {
	var out []*types.LearningPath
	if userID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *pathRepo) UpdatePathData(dbc dbctx.Context, id uuid.UUID, expectedVersion int, doc []byte, updates map[string]interface{}) (int, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["path_data"] = datatypes.JSON(doc)
	updates["version"] = gorm.Expr("version + 1")
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	res := dbc.DB(r.db).
		Model(&types.LearningPath{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, apierr.ErrVersionConflict
	}
	return expectedVersion + 1, nil
}

func (r *pathRepo) SoftDelete(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) (bool, error) {
	if id == uuid.Nil || userID == uuid.Nil {
		return false, nil
	}
	res := dbc.DB(r.db).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&types.LearningPath{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
