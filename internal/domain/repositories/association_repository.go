package repositories

import (
	"context"

	"github.com/google/uuid"
	"habita-coop.backend/internal/domain/entities"
)

// AssociationRepository defines association data operations
type AssociationRepository interface {
	Create(ctx context.Context, association *entities.Association) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Association, error)
	GetByCNPJ(ctx context.Context, cnpj string) (*entities.Association, error)
	GetByEmail(ctx context.Context, email string) (*entities.Association, error)
	List(ctx context.Context, onlyApproved bool) ([]*entities.Association, error)
	ListActiveApproved(ctx context.Context) ([]*entities.Association, error)
	Update(ctx context.Context, association *entities.Association) error
	SetApproved(ctx context.Context, id uuid.UUID, approved bool) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	GetDefault(ctx context.Context) (*entities.Association, error)
	ClearDefault(ctx context.Context) error
	SetDefault(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountAll(ctx context.Context) (int64, error)
}
