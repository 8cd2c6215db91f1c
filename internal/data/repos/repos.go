package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/learnpath-backend/internal/data/repos/learning"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type PathRepo = learning.PathRepo
type UserProgressRepo = learning.UserProgressRepo

type Repos struct {
	Path         PathRepo
	UserProgress UserProgressRepo
}

func New(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Path:         learning.NewPathRepo(db, log),
		UserProgress: learning.NewUserProgressRepo(db, log),
	}
}
