package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"habita-coop.backend/internal/domain/entities"
	domainerrors "habita-coop.backend/internal/domain/errors"
	domainRepos "habita-coop.backend/internal/domain/repositories"
	"habita-coop.backend/internal/infrastructure/repositories"
)

func TestPaymentUsecase_NextInstallment_FirstInstallment(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)
	uc := newPaymentUsecase(db, &fakeGateway{}, now)

	// Registered on the 15th with payment day 10: the first due date is the
	// next occurrence of the 10th, i.e. February 10th.
	registeredAt := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)
	user := seedUser(t, db, 10, registeredAt)

	next, err := uc.NextInstallment(context.Background(), user.ID)
	require.NoError(t, err)
	require.False(t, next.Materialized())
	require.Equal(t, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), next.DueDate)
	require.Equal(t, 150.00, next.Amount)
}

func TestPaymentUsecase_EnsureNextInstallment_Idempotent(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)
	uc := newPaymentUsecase(db, &fakeGateway{}, now)
	user := seedUser(t, db, 10, time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	first, err := uc.EnsureNextInstallment(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, entities.PaymentStatusPending, first.Status)

	second, err := uc.EnsureNextInstallment(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Table("payments").Where("user_id = ?", user.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestPaymentUsecase_DueDateAdvancesAfterSettlement(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)
	uc := newPaymentUsecase(db, &fakeGateway{}, now)
	user := seedUser(t, db, 10, time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	first, err := uc.EnsureNextInstallment(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), first.DueDate)

	_, err = uc.MarkPaid(ctx, first.ID, &entities.MarkPaidInput{PaymentMethod: "pix"})
	require.NoError(t, err)

	// Next installment is exactly one calendar month after the settled one,
	// regardless of when the member actually paid.
	next, err := uc.EnsureNextInstallment(ctx, user.ID)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, next.ID)
	require.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), next.DueDate)
}

func TestPaymentUsecase_MarkPaidIsOneWay(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)
	uc := newPaymentUsecase(db, &fakeGateway{}, now)
	user := seedUser(t, db, 10, time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	payment, err := uc.EnsureNextInstallment(ctx, user.ID)
	require.NoError(t, err)

	settled, err := uc.MarkPaid(ctx, payment.ID, nil)
	require.NoError(t, err)
	require.Equal(t, entities.PaymentStatusPaid, settled.Status)
	require.True(t, settled.PaidDate.Valid)

	_, err = uc.MarkPaid(ctx, payment.ID, nil)
	require.ErrorIs(t, err, domainerrors.ErrPaymentAlreadyPaid)

	_, err = uc.MarkPaid(ctx, uuid.New(), nil)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestPaymentUsecase_MarkPaidByOwner(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)
	uc := newPaymentUsecase(db, &fakeGateway{}, now)
	owner := seedUser(t, db, 10, time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))
	stranger := seedUser(t, db, 20, time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	payment, err := uc.EnsureNextInstallment(ctx, owner.ID)
	require.NoError(t, err)

	// Another member cannot settle someone else's installment.
	_, err = uc.MarkPaidByOwner(ctx, stranger.ID, payment.ID, nil)
	require.ErrorIs(t, err, domainerrors.ErrForbidden)

	settled, err := uc.MarkPaidByOwner(ctx, owner.ID, payment.ID, &entities.MarkPaidInput{PaymentMethod: "pix"})
	require.NoError(t, err)
	require.Equal(t, entities.PaymentStatusPaid, settled.Status)
}

func TestPaymentUsecase_CreateCharge(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)
	gw := &fakeGateway{}
	uc := newPaymentUsecase(db, gw, now)
	user := seedUser(t, db, 10, time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	// No installment row yet: the charge materializes one first.
	data, err := uc.CreateCharge(ctx, user.ID, &entities.CreateChargeInput{Method: entities.ChargeMethodPix})
	require.NoError(t, err)
	require.NotEmpty(t, data.ChargeID)
	require.NotEmpty(t, data.PixQRCode)
	require.Equal(t, 1, gw.calls)

	// A second request reuses the stored charge instead of creating another.
	again, err := uc.CreateCharge(ctx, user.ID, &entities.CreateChargeInput{Method: entities.ChargeMethodBoleto})
	require.NoError(t, err)
	require.Equal(t, data.ChargeID, again.ChargeID)
	require.Equal(t, 1, gw.calls)
}

func TestPaymentUsecase_CreateCharge_Validation(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)
	gw := &fakeGateway{}
	uc := newPaymentUsecase(db, gw, now)
	user := seedUser(t, db, 10, time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))
	other := seedUser(t, db, 20, time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := uc.CreateCharge(ctx, user.ID, &entities.CreateChargeInput{Method: "credit_card"})
	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 0, gw.calls)

	payment, err := uc.EnsureNextInstallment(ctx, user.ID)
	require.NoError(t, err)

	// Charging someone else's installment is forbidden.
	_, err = uc.CreateCharge(ctx, other.ID, &entities.CreateChargeInput{
		PaymentID: &payment.ID,
		Method:    entities.ChargeMethodPix,
	})
	require.ErrorIs(t, err, domainerrors.ErrForbidden)

	// Charging a settled installment is a conflict.
	_, err = uc.MarkPaid(ctx, payment.ID, nil)
	require.NoError(t, err)
	_, err = uc.CreateCharge(ctx, user.ID, &entities.CreateChargeInput{
		PaymentID: &payment.ID,
		Method:    entities.ChargeMethodPix,
	})
	require.ErrorIs(t, err, domainerrors.ErrPaymentAlreadyPaid)
	require.Equal(t, 0, gw.calls)
}

func TestPaymentUsecase_CreateCharge_GatewayDown(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)
	gw := &fakeGateway{err: domainerrors.ErrGatewayUnavailable}
	uc := newPaymentUsecase(db, gw, now)
	user := seedUser(t, db, 10, time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))

	_, err := uc.CreateCharge(context.Background(), user.ID, &entities.CreateChargeInput{Method: entities.ChargeMethodPix})
	require.ErrorIs(t, err, domainerrors.ErrGatewayUnavailable)

	// The materialized installment stays chargeable.
	payment, err := uc.EnsureNextInstallment(context.Background(), user.ID)
	require.NoError(t, err)
	require.False(t, payment.ChargeID.Valid)
}

// failingChargeWriter makes SetChargeData fail after the gateway call went
// through, exercising the partial-failure contract.
type failingChargeWriter struct {
	domainRepos.PaymentRepository
}

func (f *failingChargeWriter) SetChargeData(context.Context, uuid.UUID, *entities.ChargeData) error {
	return errors.New("disk full")
}

func TestPaymentUsecase_CreateCharge_PartialFailure(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)
	gw := &fakeGateway{}
	uc := NewPaymentUsecase(
		&failingChargeWriter{PaymentRepository: repositories.NewPaymentRepository(db)},
		repositories.NewUserRepository(db),
		repositories.NewUnitOfWork(db),
		gw,
		testBilling,
	)
	uc.now = func() time.Time { return now }
	user := seedUser(t, db, 10, time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))

	_, err := uc.CreateCharge(context.Background(), user.ID, &entities.CreateChargeInput{Method: entities.ChargeMethodPix})

	// The charge exists at the gateway but not locally: the caller gets the
	// charge id back so it can re-fetch instead of charging twice.
	var partial *domainerrors.ChargePartialError
	require.ErrorAs(t, err, &partial)
	require.NotEmpty(t, partial.ChargeID)
	require.Equal(t, 1, gw.calls)
}

// racingChargeWriter simulates a concurrent request winning the charge write
// between the gateway call and our own persist.
type racingChargeWriter struct {
	domainRepos.PaymentRepository
	competing *entities.ChargeData
}

func (r *racingChargeWriter) SetChargeData(ctx context.Context, id uuid.UUID, data *entities.ChargeData) error {
	if err := r.PaymentRepository.SetChargeData(ctx, id, r.competing); err != nil {
		return err
	}
	return r.PaymentRepository.SetChargeData(ctx, id, data)
}

func TestPaymentUsecase_CreateCharge_ConcurrentWriterWins(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)
	gw := &fakeGateway{}
	competing := &entities.ChargeData{ChargeID: "ch_competing", PixQRCode: "qr_competing"}
	uc := NewPaymentUsecase(
		&racingChargeWriter{PaymentRepository: repositories.NewPaymentRepository(db), competing: competing},
		repositories.NewUserRepository(db),
		repositories.NewUnitOfWork(db),
		gw,
		testBilling,
	)
	uc.now = func() time.Time { return now }
	user := seedUser(t, db, 10, time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))

	data, err := uc.CreateCharge(context.Background(), user.ID, &entities.CreateChargeInput{Method: entities.ChargeMethodPix})
	require.NoError(t, err)
	require.Equal(t, "ch_competing", data.ChargeID)
	require.Equal(t, "qr_competing", data.PixQRCode)
}

func TestPaymentUsecase_SettleByChargeID(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)
	uc := newPaymentUsecase(db, &fakeGateway{}, now)
	user := seedUser(t, db, 10, time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	data, err := uc.CreateCharge(ctx, user.ID, &entities.CreateChargeInput{Method: entities.ChargeMethodPix})
	require.NoError(t, err)

	paidAt := time.Date(2025, 2, 9, 14, 30, 0, 0, time.UTC)
	settled, err := uc.SettleByChargeID(ctx, data.ChargeID, &paidAt, "txn_123", "pix")
	require.NoError(t, err)
	require.Equal(t, entities.PaymentStatusPaid, settled.Status)
	require.Equal(t, "txn_123", settled.TransactionID.String)
	require.True(t, settled.PaidDate.Valid)
	require.True(t, settled.PaidDate.Time.Equal(paidAt))

	// Webhook redelivery acknowledges without changing anything.
	later := paidAt.Add(48 * time.Hour)
	redelivered, err := uc.SettleByChargeID(ctx, data.ChargeID, &later, "txn_999", "pix")
	require.NoError(t, err)
	require.True(t, redelivered.PaidDate.Time.Equal(paidAt))
	require.Equal(t, "txn_123", redelivered.TransactionID.String)

	_, err = uc.SettleByChargeID(ctx, "ch_unknown", nil, "", "")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestPaymentUsecase_ComplianceStats(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	uc := newPaymentUsecase(db, &fakeGateway{}, now)
	ctx := context.Background()

	// A member whose only pending installment is still in the future.
	onTime := seedUser(t, db, 20, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	_, err := uc.EnsureNextInstallment(ctx, onTime.ID)
	require.NoError(t, err)

	stats, err := uc.ComplianceStats(ctx, onTime.ID)
	require.NoError(t, err)
	require.True(t, stats.IsAdimplente)
	require.EqualValues(t, 0, stats.OverdueCount)
	require.Equal(t, 150.00, stats.TotalPending)
	require.NotNil(t, stats.NextPayment)

	// A member with a pending installment already past due.
	late := seedUser(t, db, 10, time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))
	ucPast := newPaymentUsecase(db, &fakeGateway{}, time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC))
	_, err = ucPast.EnsureNextInstallment(ctx, late.ID)
	require.NoError(t, err)

	stats, err = uc.ComplianceStats(ctx, late.ID)
	require.NoError(t, err)
	require.False(t, stats.IsAdimplente)
	require.EqualValues(t, 1, stats.OverdueCount)
}
