package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// ContactSubmission is a lead captured from the public site, append-only
type ContactSubmission struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Phone     null.String `json:"phone,omitempty"`
	Message   string      `json:"message"`
	CreatedAt time.Time   `json:"createdAt"`
}

// CreateContactInput represents input from the public contact form
type CreateContactInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message" binding:"required"`
}
