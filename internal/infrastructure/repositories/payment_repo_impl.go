package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"habita-coop.backend/internal/domain/entities"
	domainerrors "habita-coop.backend/internal/domain/errors"
	"habita-coop.backend/internal/infrastructure/models"
)

// overduePendingCond is the single SQL rendition of the derived overdue
// state. Every aggregate below uses it; none of them store the flag.
const overduePendingCond = "payments.status = ? AND payments.due_date < ?"

func overdueArgs(now time.Time) []interface{} {
	return []interface{}{string(entities.PaymentStatusPending), entities.Today(now)}
}

// PaymentRepository implements payment data operations
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a new payment row
func (r *PaymentRepository) Create(ctx context.Context, payment *entities.Payment) error {
	m := r.toModel(payment)
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	payment.ID = m.ID
	return nil
}

// GetByID gets a payment by ID
func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error) {
	var m models.Payment
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByChargeID gets a payment by its gateway charge reference
func (r *PaymentRepository) GetByChargeID(ctx context.Context, chargeID string) (*entities.Payment, error) {
	var m models.Payment
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("charge_id = ?", chargeID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetLatestByUser gets the user's most recent payment by due date
func (r *PaymentRepository) GetLatestByUser(ctx context.Context, userID uuid.UUID) (*entities.Payment, error) {
	var m models.Payment
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("due_date DESC").
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// ExistsForUserAndDueDate reports whether an installment row already covers
// the given due date
func (r *PaymentRepository) ExistsForUserAndDueDate(ctx context.Context, userID uuid.UUID, dueDate time.Time) (bool, error) {
	var count int64
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Model(&models.Payment{}).
		Where("user_id = ? AND due_date = ?", userID, dueDate).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByUser gets payments for a user with pagination, newest due first
func (r *PaymentRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Payment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Payment
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("due_date DESC").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	var payments []*entities.Payment
	for i := range ms {
		payments = append(payments, r.toEntity(&ms[i]))
	}
	return payments, total, nil
}

// MarkPaid settles a pending payment. The status guard in the WHERE clause
// makes the transition one-way: a paid row is never touched again.
func (r *PaymentRepository) MarkPaid(ctx context.Context, id uuid.UUID, paidDate time.Time, method, transactionID, notes string) error {
	updates := map[string]interface{}{
		"status":     string(entities.PaymentStatusPaid),
		"paid_date":  paidDate,
		"updated_at": time.Now(),
	}
	if method != "" {
		updates["payment_method"] = method
	}
	if transactionID != "" {
		updates["transaction_id"] = transactionID
	}
	if notes != "" {
		updates["notes"] = notes
	}

	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, string(entities.PaymentStatusPending)).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrNotFound
		}
		return domainerrors.ErrPaymentAlreadyPaid
	}
	return nil
}

// SetChargeData persists gateway charge references on a payment. The guard
// on charge_id keeps the write idempotent per installment.
func (r *PaymentRepository) SetChargeData(ctx context.Context, id uuid.UUID, data *entities.ChargeData) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND charge_id IS NULL", id).
		Updates(map[string]interface{}{
			"charge_id":   data.ChargeID,
			"pix_qr_code": nullableString(data.PixQRCode),
			"boleto_url":  nullableString(data.BoletoURL),
			"payment_url": nullableString(data.PaymentURL),
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrNotFound
		}
		return domainerrors.ErrChargeAlreadyExists
	}
	return nil
}

// SumByUserAndStatus sums payment amounts for a user and status
func (r *PaymentRepository) SumByUserAndStatus(ctx context.Context, userID uuid.UUID, status entities.PaymentStatus) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND status = ?", userID, string(status)).
		Scan(&total).Error
	return total, err
}

// CountOverdueForUser counts a user's overdue pending installments
func (r *PaymentRepository) CountOverdueForUser(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	args := append([]interface{}{userID}, overdueArgs(now)...)
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("payments.user_id = ? AND "+overduePendingCond, args...).
		Count(&count).Error
	return count, err
}

// CountUsersOverdueByAssociation counts distinct inadimplente members of an
// association. Deactivated members are excluded so the count never exceeds
// the active membership it is subtracted from.
func (r *PaymentRepository) CountUsersOverdueByAssociation(ctx context.Context, associationID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	args := append([]interface{}{associationID, true}, overdueArgs(now)...)
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Distinct("payments.user_id").
		Joins("JOIN users ON users.id = payments.user_id").
		Where("users.association_id = ? AND users.is_active = ? AND "+overduePendingCond, args...).
		Count(&count).Error
	return count, err
}

// CountAll counts all payment rows
func (r *PaymentRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).Count(&count).Error
	return count, err
}

// SumPaid sums settled revenue across all users
func (r *PaymentRepository) SumPaid(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", string(entities.PaymentStatusPaid)).
		Scan(&total).Error
	return total, err
}

// ListDueBetween lists payments due in [start, end), user preloaded
func (r *PaymentRepository) ListDueBetween(ctx context.Context, start, end time.Time) ([]*entities.Payment, error) {
	var ms []models.Payment
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("due_date >= ? AND due_date < ?", start, end).
		Order("due_date ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	var payments []*entities.Payment
	for i := range ms {
		payments = append(payments, r.toEntity(&ms[i]))
	}
	return payments, nil
}

// ListPaidBetween lists settled payments with paid_date in [start, end)
func (r *PaymentRepository) ListPaidBetween(ctx context.Context, start, end time.Time) ([]*entities.Payment, error) {
	var ms []models.Payment
	if err := r.db.WithContext(ctx).
		Where("status = ? AND paid_date >= ? AND paid_date < ?", string(entities.PaymentStatusPaid), start, end).
		Order("paid_date ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	var payments []*entities.Payment
	for i := range ms {
		payments = append(payments, r.toEntity(&ms[i]))
	}
	return payments, nil
}

// ListOverdue lists all overdue pending payments, user preloaded
func (r *PaymentRepository) ListOverdue(ctx context.Context, now time.Time) ([]*entities.Payment, error) {
	var ms []models.Payment
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where(overduePendingCond, overdueArgs(now)...).
		Order("due_date ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	var payments []*entities.Payment
	for i := range ms {
		payments = append(payments, r.toEntity(&ms[i]))
	}
	return payments, nil
}

func (r *PaymentRepository) toModel(p *entities.Payment) *models.Payment {
	m := &models.Payment{
		ID:            p.ID,
		UserID:        p.UserID,
		Amount:        p.Amount,
		DueDate:       p.DueDate,
		PaidDate:      p.PaidDate.Ptr(),
		Status:        string(p.Status),
		PaymentMethod: p.PaymentMethod.Ptr(),
		TransactionID: p.TransactionID.Ptr(),
		Notes:         p.Notes.Ptr(),
		ChargeID:      p.ChargeID.Ptr(),
		PixQRCode:     p.PixQRCode.Ptr(),
		BoletoURL:     p.BoletoURL.Ptr(),
		PaymentURL:    p.PaymentURL.Ptr(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	return m
}

func (r *PaymentRepository) toEntity(m *models.Payment) *entities.Payment {
	p := &entities.Payment{
		ID:            m.ID,
		UserID:        m.UserID,
		Amount:        m.Amount,
		DueDate:       m.DueDate,
		PaidDate:      null.TimeFromPtr(m.PaidDate),
		Status:        entities.PaymentStatus(m.Status),
		PaymentMethod: null.StringFromPtr(m.PaymentMethod),
		TransactionID: null.StringFromPtr(m.TransactionID),
		Notes:         null.StringFromPtr(m.Notes),
		ChargeID:      null.StringFromPtr(m.ChargeID),
		PixQRCode:     null.StringFromPtr(m.PixQRCode),
		BoletoURL:     null.StringFromPtr(m.BoletoURL),
		PaymentURL:    null.StringFromPtr(m.PaymentURL),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.User.ID != uuid.Nil {
		p.User = &entities.User{
			ID:            m.User.ID,
			Name:          m.User.Name,
			Email:         m.User.Email,
			PaymentDay:    m.User.PaymentDay,
			AssociationID: m.User.AssociationID,
			IsActive:      m.User.IsActive,
		}
	}
	return p
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
