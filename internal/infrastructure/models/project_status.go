package models

import (
	"time"

	"github.com/google/uuid"
)

type ProjectStatus struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Phase              string    `gorm:"type:varchar(50);not null"`
	ProgressPercentage int       `gorm:"not null;default:0"`
	Notes              *string   `gorm:"type:text"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
