package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PathStatusActive   = "active"
	PathStatusArchived = "archived"
)

// LearningPath owns a free-form JSON document. The roadmap lives under the
// "roadmap" key and sibling keys belong to other features.
type LearningPath struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Title         string         `gorm:"column:title;not null" json:"title"`
	Description   string         `gorm:"column:description;type:text" json:"description,omitempty"`
	TargetSkills  datatypes.JSON `gorm:"column:target_skills" json:"target_skills,omitempty"`
	Status        string         `gorm:"column:status;not null;default:'active';index" json:"status"`
	GeneratedByAI bool           `gorm:"column:generated_by_ai;not null;default:false" json:"generated_by_ai"`
	PathData      datatypes.JSON `gorm:"column:path_data" json:"path_data,omitempty"`
	Version       int            `gorm:"column:version;not null;default:1" json:"version"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (LearningPath) TableName() string { return "learning_paths" }
