package db

import (
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.LearningPath{},
		&types.UserProgress{},
	)
}
