package repositories

import (
	"context"

	"github.com/google/uuid"
	"habita-coop.backend/internal/domain/entities"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	List(ctx context.Context, filter entities.UserFilter) ([]*entities.User, int64, error)
	Update(ctx context.Context, user *entities.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	CountByAssociation(ctx context.Context, associationID uuid.UUID, onlyActive bool) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	CountFake(ctx context.Context) (int64, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*entities.UserProfile, error)
	UpsertProfile(ctx context.Context, profile *entities.UserProfile) error
}
