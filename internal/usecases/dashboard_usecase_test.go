package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"habita-coop.backend/internal/domain/entities"
	"habita-coop.backend/internal/infrastructure/repositories"
)

func newDashboardUsecase(db *gorm.DB, now time.Time) *DashboardUsecase {
	uc := NewDashboardUsecase(
		repositories.NewUserRepository(db),
		repositories.NewAssociationRepository(db),
		repositories.NewPaymentRepository(db),
		repositories.NewContactRepository(db),
	)
	uc.now = func() time.Time { return now }
	return uc
}

func TestDashboardUsecase_TotalsAndSeries(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	uc := newDashboardUsecase(db, now)
	payRepo := repositories.NewPaymentRepository(db)
	ctx := context.Background()

	seedAssociation(t, db, true)
	user := seedUser(t, db, 10, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))

	// A settled installment near the start of the window, another due in
	// April and paid in May, and an open one due in June.
	september := &entities.Payment{
		ID: uuid.New(), UserID: user.ID, Amount: 150.00,
		DueDate: time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC),
		Status:  entities.PaymentStatusPending,
	}
	require.NoError(t, payRepo.Create(ctx, september))
	require.NoError(t, payRepo.MarkPaid(ctx, september.ID, time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC), "pix", "txn_0", ""))

	april := &entities.Payment{
		ID: uuid.New(), UserID: user.ID, Amount: 150.00,
		DueDate: time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
		Status:  entities.PaymentStatusPending,
	}
	require.NoError(t, payRepo.Create(ctx, april))
	require.NoError(t, payRepo.MarkPaid(ctx, april.ID, time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), "pix", "txn_1", ""))

	june := &entities.Payment{
		ID: uuid.New(), UserID: user.ID, Amount: 150.00,
		DueDate: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Status:  entities.PaymentStatusPending,
	}
	require.NoError(t, payRepo.Create(ctx, june))

	require.NoError(t, repositories.NewContactRepository(db).Create(ctx, &entities.ContactSubmission{
		ID: uuid.New(), Name: "Visitante", Email: "v@example.com", Message: "olá", CreatedAt: now,
	}))

	resp, err := uc.Dashboard(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, resp.Totals.TotalUsers)
	require.EqualValues(t, 1, resp.Totals.TotalAssociations)
	require.EqualValues(t, 3, resp.Totals.TotalPayments)
	require.EqualValues(t, 1, resp.Totals.TotalContacts)
	require.InDelta(t, 300.00, resp.Totals.TotalRevenue, 0.001)

	// Twelve buckets ending in the current month.
	require.Len(t, resp.Series, 12)
	require.Equal(t, "2024-07", resp.Series[0].Month)
	require.Equal(t, "2025-06", resp.Series[11].Month)

	byMonth := make(map[string]entities.MonthlyStat, len(resp.Series))
	for _, s := range resp.Series {
		byMonth[s.Month] = s
	}
	// Volume buckets by due month, revenue by settlement month. The
	// September bucket sits in the first half of the window, so it catches
	// increments lost to a reallocated series slice.
	require.EqualValues(t, 1, byMonth["2024-09"].Payments)
	require.InDelta(t, 150.00, byMonth["2024-09"].Revenue, 0.001)
	require.EqualValues(t, 1, byMonth["2025-04"].Payments)
	require.InDelta(t, 0, byMonth["2025-04"].Revenue, 0.001)
	require.InDelta(t, 150.00, byMonth["2025-05"].Revenue, 0.001)
	require.EqualValues(t, 1, byMonth["2025-06"].Payments)
}

func TestDashboardUsecase_PaymentsReportInclusiveEnd(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	uc := newDashboardUsecase(db, now)
	payRepo := repositories.NewPaymentRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, 10, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))

	for _, day := range []int{9, 10, 11} {
		p := &entities.Payment{
			ID: uuid.New(), UserID: user.ID, Amount: 150.00,
			DueDate: time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC),
			Status:  entities.PaymentStatusPending,
		}
		require.NoError(t, payRepo.Create(ctx, p))
	}

	report, err := uc.PaymentsReport(ctx,
		time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, report, 2)
}

func TestDashboardUsecase_OverdueReport(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	uc := newDashboardUsecase(db, now)
	payRepo := repositories.NewPaymentRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, 10, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))

	overdue := &entities.Payment{
		ID: uuid.New(), UserID: user.ID, Amount: 150.00,
		DueDate: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Status:  entities.PaymentStatusPending,
	}
	require.NoError(t, payRepo.Create(ctx, overdue))

	future := &entities.Payment{
		ID: uuid.New(), UserID: user.ID, Amount: 150.00,
		DueDate: time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC),
		Status:  entities.PaymentStatusPending,
	}
	require.NoError(t, payRepo.Create(ctx, future))

	rows, err := uc.OverdueReport(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, overdue.ID, rows[0].PaymentID)
	require.Equal(t, 5, rows[0].DaysLate)
	require.Equal(t, user.Name, rows[0].UserName)
	require.Equal(t, user.Email, rows[0].UserEmail)
}
