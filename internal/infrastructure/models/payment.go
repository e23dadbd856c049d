package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment rows are a financial record: never deleted, and the overdue state
// is never stored on them. The (user_id, due_date) unique index backs the
// one-installment-per-month invariant.
type Payment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_payments_user_due"`
	Amount        float64   `gorm:"type:decimal(10,2);not null"`
	DueDate       time.Time `gorm:"not null;index;uniqueIndex:idx_payments_user_due"`
	PaidDate      *time.Time
	Status        string  `gorm:"type:varchar(20);not null;index"`
	PaymentMethod *string `gorm:"type:varchar(50)"`
	TransactionID *string `gorm:"type:varchar(255);index"`
	Notes         *string `gorm:"type:text"`
	ChargeID      *string `gorm:"type:varchar(255);uniqueIndex"`
	PixQRCode     *string `gorm:"type:text"`
	BoletoURL     *string `gorm:"type:varchar(500)"`
	PaymentURL    *string `gorm:"type:varchar(500)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	User User `gorm:"foreignKey:UserID"`
}
