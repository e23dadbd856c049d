package repositories

import (
	"context"

	"github.com/google/uuid"
	"habita-coop.backend/internal/domain/entities"
)

// ProjectStatusRepository defines construction-progress operations
type ProjectStatusRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.ProjectStatus, error)
	Upsert(ctx context.Context, status *entities.ProjectStatus) error
}
