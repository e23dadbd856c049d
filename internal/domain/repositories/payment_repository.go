package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"habita-coop.backend/internal/domain/entities"
)

// PaymentRepository defines payment data operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *entities.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error)
	GetByChargeID(ctx context.Context, chargeID string) (*entities.Payment, error)
	GetLatestByUser(ctx context.Context, userID uuid.UUID) (*entities.Payment, error)
	ExistsForUserAndDueDate(ctx context.Context, userID uuid.UUID, dueDate time.Time) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Payment, int64, error)
	MarkPaid(ctx context.Context, id uuid.UUID, paidDate time.Time, method, transactionID, notes string) error
	SetChargeData(ctx context.Context, id uuid.UUID, data *entities.ChargeData) error

	// Aggregates. All overdue-aware queries share the single pending+due_date
	// predicate; none of them read a stored overdue flag.
	SumByUserAndStatus(ctx context.Context, userID uuid.UUID, status entities.PaymentStatus) (float64, error)
	CountOverdueForUser(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
	CountUsersOverdueByAssociation(ctx context.Context, associationID uuid.UUID, now time.Time) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	SumPaid(ctx context.Context) (float64, error)
	ListDueBetween(ctx context.Context, start, end time.Time) ([]*entities.Payment, error)
	ListPaidBetween(ctx context.Context, start, end time.Time) ([]*entities.Payment, error)
	ListOverdue(ctx context.Context, now time.Time) ([]*entities.Payment, error)
}
