package repositories

import (
	"context"

	"habita-coop.backend/internal/domain/entities"
)

// ContactRepository defines contact submission operations. Submissions are
// append-only; there is no update or delete.
type ContactRepository interface {
	Create(ctx context.Context, contact *entities.ContactSubmission) error
	List(ctx context.Context, limit, offset int) ([]*entities.ContactSubmission, int64, error)
	CountAll(ctx context.Context) (int64, error)
}
