package domain

import "github.com/yungbote/learnpath-backend/internal/domain/learning"

type (
	LearningPath = learning.LearningPath
	UserProgress = learning.UserProgress
)

const (
	PathStatusActive   = learning.PathStatusActive
	PathStatusArchived = learning.PathStatusArchived

	ProgressNotStarted = learning.ProgressNotStarted
	ProgressInProgress = learning.ProgressInProgress
	ProgressCompleted  = learning.ProgressCompleted
)

var ProgressStatus = learning.ProgressStatus
