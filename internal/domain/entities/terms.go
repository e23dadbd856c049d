package entities

import (
	"time"

	"github.com/google/uuid"
)

// TermsOfAcceptance is one versioned legal text. At most one version is
// active at a time.
type TermsOfAcceptance struct {
	ID        uuid.UUID `json:"id"`
	Version   string    `json:"version"`
	Content   string    `json:"content"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// TermAcceptance records a member accepting a term version, append-only
type TermAcceptance struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	TermID     uuid.UUID `json:"termId"`
	AcceptedAt time.Time `json:"acceptedAt"`
}

// CreateTermInput represents admin input for publishing a new term version
type CreateTermInput struct {
	Version string `json:"version" binding:"required"`
	Content string `json:"content" binding:"required"`
}
