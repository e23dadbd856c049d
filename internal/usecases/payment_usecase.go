package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"habita-coop.backend/internal/config"
	"habita-coop.backend/internal/domain/entities"
	domainerrors "habita-coop.backend/internal/domain/errors"
	"habita-coop.backend/internal/domain/repositories"
	"habita-coop.backend/internal/infrastructure/gateway"
)

// ChargeGateway is the outbound boundary to the external payment gateway
type ChargeGateway interface {
	CreateCharge(ctx context.Context, req *gateway.ChargeRequest) (*gateway.Charge, error)
}

// PaymentUsecase manages the monthly installment lifecycle: generation,
// settlement, gateway charges and compliance derivation.
type PaymentUsecase struct {
	paymentRepo repositories.PaymentRepository
	userRepo    repositories.UserRepository
	uow         repositories.UnitOfWork
	gateway     ChargeGateway
	billing     config.BillingConfig

	now func() time.Time
}

// NewPaymentUsecase creates a new payment usecase
func NewPaymentUsecase(
	paymentRepo repositories.PaymentRepository,
	userRepo repositories.UserRepository,
	uow repositories.UnitOfWork,
	chargeGateway ChargeGateway,
	billing config.BillingConfig,
) *PaymentUsecase {
	return &PaymentUsecase{
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		uow:         uow,
		gateway:     chargeGateway,
		billing:     billing,
		now:         time.Now,
	}
}

// NextInstallment resolves the member's next installment: the open pending
// row when one exists, otherwise a projection that has not been inserted yet.
func (u *PaymentUsecase) NextInstallment(ctx context.Context, userID uuid.UUID) (*entities.NextInstallment, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	latest, err := u.paymentRepo.GetLatestByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			// First installment: next occurrence of the payment day after
			// registration.
			due := entities.NextDueDate(user.PaymentDay, user.CreatedAt)
			return &entities.NextInstallment{Amount: u.billing.InstallmentAmount, DueDate: due}, nil
		}
		return nil, err
	}

	if latest.Status == entities.PaymentStatusPending {
		return &entities.NextInstallment{
			Payment: latest,
			Amount:  latest.Amount,
			DueDate: latest.DueDate,
		}, nil
	}

	// Latest is paid: next installment is exactly one calendar month later,
	// same day-of-month.
	due := latest.DueDate.AddDate(0, 1, 0)
	return &entities.NextInstallment{Amount: u.billing.InstallmentAmount, DueDate: due}, nil
}

// EnsureNextInstallment materializes the member's next installment if it
// does not exist yet. At most one pending installment per user ever exists:
// an open pending row short-circuits, and the in-transaction due-date
// re-check plus the (user_id, due_date) unique index close the race between
// concurrent calls.
func (u *PaymentUsecase) EnsureNextInstallment(ctx context.Context, userID uuid.UUID) (*entities.Payment, error) {
	var result *entities.Payment
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		next, err := u.NextInstallment(txCtx, userID)
		if err != nil {
			return err
		}
		if next.Materialized() {
			result = next.Payment
			return nil
		}

		exists, err := u.paymentRepo.ExistsForUserAndDueDate(txCtx, userID, next.DueDate)
		if err != nil {
			return err
		}
		if exists {
			result, err = u.paymentRepo.GetLatestByUser(txCtx, userID)
			return err
		}

		now := u.now()
		payment := &entities.Payment{
			ID:        uuid.New(),
			UserID:    userID,
			Amount:    next.Amount,
			DueDate:   next.DueDate,
			Status:    entities.PaymentStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := u.paymentRepo.Create(txCtx, payment); err != nil {
			return err
		}
		result = payment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MarkPaid settles an installment. The transition is one-way; settling an
// already-paid row is a conflict.
func (u *PaymentUsecase) MarkPaid(ctx context.Context, paymentID uuid.UUID, input *entities.MarkPaidInput) (*entities.Payment, error) {
	paidDate := u.now()
	if input != nil && input.PaidDate != nil {
		paidDate = *input.PaidDate
	}
	var method, transactionID, notes string
	if input != nil {
		method = input.PaymentMethod
		transactionID = input.TransactionID
		notes = input.Notes
	}

	if err := u.paymentRepo.MarkPaid(ctx, paymentID, paidDate, method, transactionID, notes); err != nil {
		return nil, err
	}
	return u.paymentRepo.GetByID(ctx, paymentID)
}

// MarkPaidByOwner settles one of the member's own installments, refusing
// rows that belong to another member.
func (u *PaymentUsecase) MarkPaidByOwner(ctx context.Context, userID, paymentID uuid.UUID, input *entities.MarkPaidInput) (*entities.Payment, error) {
	payment, err := u.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.UserID != userID {
		return nil, domainerrors.ErrForbidden
	}
	return u.MarkPaid(ctx, paymentID, input)
}

// CreateCharge requests a PIX or boleto charge for an installment. A virtual
// next installment is materialized first so the charge always attaches to a
// real row. If the payment already carries a charge the stored reference is
// returned; a second gateway charge is never created for the same
// installment.
func (u *PaymentUsecase) CreateCharge(ctx context.Context, userID uuid.UUID, input *entities.CreateChargeInput) (*entities.ChargeData, error) {
	if input.Method != entities.ChargeMethodPix && input.Method != entities.ChargeMethodBoleto {
		return nil, domainerrors.BadRequest("method must be pix or boleto")
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var payment *entities.Payment
	if input.PaymentID != nil {
		payment, err = u.paymentRepo.GetByID(ctx, *input.PaymentID)
		if err != nil {
			return nil, err
		}
		if payment.UserID != userID {
			return nil, domainerrors.ErrForbidden
		}
	} else {
		payment, err = u.EnsureNextInstallment(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	if payment.Status == entities.PaymentStatusPaid {
		return nil, domainerrors.ErrPaymentAlreadyPaid
	}
	if payment.ChargeID.Valid {
		return chargeDataFromPayment(payment), nil
	}

	charge, err := u.gateway.CreateCharge(ctx, &gateway.ChargeRequest{
		PaymentID:  payment.ID,
		Method:     input.Method,
		Amount:     payment.Amount,
		DueDate:    payment.DueDate,
		PayerName:  user.Name,
		PayerEmail: user.Email,
		PayerCPF:   user.CPF.String,
	})
	if err != nil {
		return nil, err
	}

	data := &entities.ChargeData{
		ChargeID:   charge.ChargeID,
		PixQRCode:  charge.PixQRCode,
		BoletoURL:  charge.BoletoURL,
		PaymentURL: charge.PaymentURL,
	}
	if err := u.paymentRepo.SetChargeData(ctx, payment.ID, data); err != nil {
		if errors.Is(err, domainerrors.ErrChargeAlreadyExists) {
			// A concurrent request won the write; reuse its charge.
			existing, getErr := u.paymentRepo.GetByID(ctx, payment.ID)
			if getErr != nil {
				return nil, &domainerrors.ChargePartialError{ChargeID: charge.ChargeID, Err: getErr}
			}
			return chargeDataFromPayment(existing), nil
		}
		// The charge exists remotely but was not persisted; the caller must
		// re-fetch it instead of charging again.
		return nil, &domainerrors.ChargePartialError{ChargeID: charge.ChargeID, Err: err}
	}
	return data, nil
}

// SettleByChargeID marks the payment owning a gateway charge as paid.
// Already-settled rows are acknowledged so webhook redelivery stays
// harmless.
func (u *PaymentUsecase) SettleByChargeID(ctx context.Context, chargeID string, paidAt *time.Time, transactionID, method string) (*entities.Payment, error) {
	payment, err := u.paymentRepo.GetByChargeID(ctx, chargeID)
	if err != nil {
		return nil, err
	}
	if payment.Status == entities.PaymentStatusPaid {
		return payment, nil
	}

	paidDate := u.now()
	if paidAt != nil {
		paidDate = *paidAt
	}
	if err := u.paymentRepo.MarkPaid(ctx, payment.ID, paidDate, method, transactionID, ""); err != nil {
		if errors.Is(err, domainerrors.ErrPaymentAlreadyPaid) {
			return u.paymentRepo.GetByID(ctx, payment.ID)
		}
		return nil, err
	}
	return u.paymentRepo.GetByID(ctx, payment.ID)
}

// ListUserPayments lists a member's payments with pagination
func (u *PaymentUsecase) ListUserPayments(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.Payment, int64, error) {
	offset := 0
	if page > 1 && limit > 0 {
		offset = (page - 1) * limit
	}
	return u.paymentRepo.ListByUser(ctx, userID, limit, offset)
}

// ComplianceStats derives a member's standing. A member is inadimplente iff
// they have at least one pending payment due before today; the count comes
// from the same predicate every other read path uses.
func (u *PaymentUsecase) ComplianceStats(ctx context.Context, userID uuid.UUID) (*entities.ComplianceStats, error) {
	now := u.now()

	overdue, err := u.paymentRepo.CountOverdueForUser(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	totalPaid, err := u.paymentRepo.SumByUserAndStatus(ctx, userID, entities.PaymentStatusPaid)
	if err != nil {
		return nil, err
	}
	totalPending, err := u.paymentRepo.SumByUserAndStatus(ctx, userID, entities.PaymentStatusPending)
	if err != nil {
		return nil, err
	}
	next, err := u.NextInstallment(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &entities.ComplianceStats{
		IsAdimplente: overdue == 0,
		TotalPaid:    totalPaid,
		TotalPending: totalPending,
		OverdueCount: overdue,
		NextPayment:  next,
	}, nil
}

func chargeDataFromPayment(p *entities.Payment) *entities.ChargeData {
	return &entities.ChargeData{
		ChargeID:   p.ChargeID.String,
		PixQRCode:  p.PixQRCode.String,
		BoletoURL:  p.BoletoURL.String,
		PaymentURL: p.PaymentURL.String,
	}
}
