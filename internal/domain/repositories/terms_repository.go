package repositories

import (
	"context"

	"github.com/google/uuid"
	"habita-coop.backend/internal/domain/entities"
)

// TermsRepository defines versioned legal text and acceptance operations
type TermsRepository interface {
	CreateTerm(ctx context.Context, term *entities.TermsOfAcceptance) error
	GetActiveTerm(ctx context.Context) (*entities.TermsOfAcceptance, error)
	GetTermByID(ctx context.Context, id uuid.UUID) (*entities.TermsOfAcceptance, error)
	ListTerms(ctx context.Context) ([]*entities.TermsOfAcceptance, error)
	DeactivateAll(ctx context.Context) error
	CreateAcceptance(ctx context.Context, acceptance *entities.TermAcceptance) error
	HasAccepted(ctx context.Context, userID, termID uuid.UUID) (bool, error)
}
