package learning

import (
	"time"

	"github.com/google/uuid"
)

const (
	ProgressNotStarted = "not_started"
	ProgressInProgress = "in_progress"
	ProgressCompleted  = "completed"
)

// UserProgress is the dashboard projection of a path's completion. It is only
// ever raised, never lowered.
type UserProgress struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID  `gorm:"type:uuid;not null;index:idx_user_progress_owner,priority:1" json:"user_id"`
	LearningPathID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_user_progress_owner,priority:2" json:"learning_path_id"`
	CourseID           *uuid.UUID `gorm:"type:uuid;index" json:"course_id,omitempty"`
	ProgressPercentage int        `gorm:"column:progress_percentage;not null;default:0" json:"progress_percentage"`
	Status             string     `gorm:"column:status;not null;default:'not_started'" json:"status"`
	CreatedAt          time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"not null" json:"updated_at"`
}

func (UserProgress) TableName() string { return "user_progress" }

// ProgressStatus is the status a projection row takes at percent.
func ProgressStatus(percent int) string {
	switch {
	case percent >= 100:
		return ProgressCompleted
	case percent <= 0:
		return ProgressNotStarted
	default:
		return ProgressInProgress
	}
}
