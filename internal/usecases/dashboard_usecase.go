package usecases

import (
	"context"
	"time"

	"habita-coop.backend/internal/domain/entities"
	"habita-coop.backend/internal/domain/repositories"
)

// DashboardTotals holds the admin dashboard aggregate counters
type DashboardTotals struct {
	TotalUsers        int64   `json:"totalUsers"`
	TotalAssociations int64   `json:"totalAssociations"`
	TotalPayments     int64   `json:"totalPayments"`
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalContacts     int64   `json:"totalContacts"`
}

// DashboardResponse is the admin dashboard payload
type DashboardResponse struct {
	Totals DashboardTotals        `json:"totals"`
	Series []entities.MonthlyStat `json:"series"`
}

// DashboardUsecase produces admin aggregates and reports
type DashboardUsecase struct {
	userRepo        repositories.UserRepository
	associationRepo repositories.AssociationRepository
	paymentRepo     repositories.PaymentRepository
	contactRepo     repositories.ContactRepository

	now func() time.Time
}

// NewDashboardUsecase creates a new dashboard usecase
func NewDashboardUsecase(
	userRepo repositories.UserRepository,
	associationRepo repositories.AssociationRepository,
	paymentRepo repositories.PaymentRepository,
	contactRepo repositories.ContactRepository,
) *DashboardUsecase {
	return &DashboardUsecase{
		userRepo:        userRepo,
		associationRepo: associationRepo,
		paymentRepo:     paymentRepo,
		contactRepo:     contactRepo,
		now:             time.Now,
	}
}

// Dashboard returns totals plus the last-12-months series. Installment
// volume buckets by due month, revenue buckets by settlement month; both
// are aggregated in one pass so sqlite tests and postgres production share
// the same code path.
func (u *DashboardUsecase) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	totalUsers, err := u.userRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	totalAssociations, err := u.associationRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	totalPayments, err := u.paymentRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	totalRevenue, err := u.paymentRepo.SumPaid(ctx)
	if err != nil {
		return nil, err
	}
	totalContacts, err := u.contactRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	series, err := u.monthlySeries(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		Totals: DashboardTotals{
			TotalUsers:        totalUsers,
			TotalAssociations: totalAssociations,
			TotalPayments:     totalPayments,
			TotalRevenue:      totalRevenue,
			TotalContacts:     totalContacts,
		},
		Series: series,
	}, nil
}

func (u *DashboardUsecase) monthlySeries(ctx context.Context) ([]entities.MonthlyStat, error) {
	now := u.now()
	y, m, _ := now.Date()
	windowEnd := time.Date(y, m, 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
	windowStart := windowEnd.AddDate(-1, 0, 0)

	due, err := u.paymentRepo.ListDueBetween(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	paid, err := u.paymentRepo.ListPaidBetween(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	// The bucket map holds pointers into series, so the slice must never
	// reallocate after this point.
	series := make([]entities.MonthlyStat, 0, 12)
	buckets := make(map[string]*entities.MonthlyStat, 12)
	for cursor := windowStart; cursor.Before(windowEnd); cursor = cursor.AddDate(0, 1, 0) {
		key := cursor.Format("2006-01")
		series = append(series, entities.MonthlyStat{Month: key})
		buckets[key] = &series[len(series)-1]
	}

	for _, p := range due {
		if stat, ok := buckets[p.DueDate.Format("2006-01")]; ok {
			stat.Payments++
		}
	}
	for _, p := range paid {
		if !p.PaidDate.Valid {
			continue
		}
		if stat, ok := buckets[p.PaidDate.Time.Format("2006-01")]; ok {
			stat.Revenue += p.Amount
		}
	}
	return series, nil
}

// PaymentsReport lists payments due within [start, end]
func (u *DashboardUsecase) PaymentsReport(ctx context.Context, start, end time.Time) ([]*entities.Payment, error) {
	// End bound is inclusive per the API contract.
	return u.paymentRepo.ListDueBetween(ctx, start, end.AddDate(0, 0, 1))
}

// OverdueReport lists every overdue installment with its member
func (u *DashboardUsecase) OverdueReport(ctx context.Context) ([]entities.OverdueReportRow, error) {
	now := u.now()
	payments, err := u.paymentRepo.ListOverdue(ctx, now)
	if err != nil {
		return nil, err
	}

	today := entities.Today(now)
	rows := make([]entities.OverdueReportRow, 0, len(payments))
	for _, p := range payments {
		row := entities.OverdueReportRow{
			PaymentID: p.ID,
			UserID:    p.UserID,
			Amount:    p.Amount,
			DueDate:   p.DueDate,
			DaysLate:  int(today.Sub(p.DueDate).Hours() / 24),
		}
		if p.User != nil {
			row.UserName = p.User.Name
			row.UserEmail = p.User.Email
		}
		rows = append(rows, row)
	}
	return rows, nil
}
