package models

import (
	"time"

	"github.com/google/uuid"
)

type TermsOfAcceptance struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Version   string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	Content   string    `gorm:"type:text;not null"`
	IsActive  bool      `gorm:"not null;default:false;index"`
	CreatedAt time.Time
}

type TermAcceptance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_term_acceptances_user_term"`
	TermID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_term_acceptances_user_term"`
	AcceptedAt time.Time `gorm:"not null"`
}
