package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// PaymentStatus represents a stored payment status. Overdue is derived at
// read time and never persisted.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// ChargeMethod represents a gateway charge method
type ChargeMethod string

const (
	ChargeMethodPix    ChargeMethod = "pix"
	ChargeMethodBoleto ChargeMethod = "boleto"
)

// Payment represents one monthly installment owed by a member
type Payment struct {
	ID            uuid.UUID     `json:"id"`
	UserID        uuid.UUID     `json:"userId"`
	Amount        float64       `json:"amount"`
	DueDate       time.Time     `json:"dueDate"`
	PaidDate      null.Time     `json:"paidDate,omitempty"`
	Status        PaymentStatus `json:"status"`
	PaymentMethod null.String   `json:"paymentMethod,omitempty"`
	TransactionID null.String   `json:"transactionId,omitempty"`
	Notes         null.String   `json:"notes,omitempty"`
	ChargeID      null.String   `json:"chargeId,omitempty"`
	PixQRCode     null.String   `json:"pixQrCode,omitempty"`
	BoletoURL     null.String   `json:"boletoUrl,omitempty"`
	PaymentURL    null.String   `json:"paymentUrl,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`

	User *User `json:"user,omitempty"`
}

// IsOverdue derives the overdue state: pending and due before today.
// Every read path (dashboards, reports, compliance) must use this single
// derivation, never a stored flag.
func (p *Payment) IsOverdue(now time.Time) bool {
	if p.Status != PaymentStatusPending {
		return false
	}
	return p.DueDate.Before(Today(now))
}

// Today truncates a clock reading to midnight in its own location
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// NextDueDate returns the next occurrence of paymentDay strictly after from.
// Allowed payment days are small (e.g. 10 or 20) so the +1 month step never
// lands on an invalid date.
func NextDueDate(paymentDay int, from time.Time) time.Time {
	y, m, _ := from.Date()
	due := time.Date(y, m, paymentDay, 0, 0, 0, 0, from.Location())
	if !due.After(Today(from)) {
		due = due.AddDate(0, 1, 0)
	}
	return due
}

// NextInstallment is the member's next installment: either an existing
// pending row (materialized) or a projection that has not been inserted yet.
type NextInstallment struct {
	Payment *Payment  `json:"payment,omitempty"`
	Amount  float64   `json:"amount"`
	DueDate time.Time `json:"dueDate"`
}

// Materialized reports whether the installment exists as a payment row
func (n *NextInstallment) Materialized() bool {
	return n.Payment != nil
}

// MarkPaidInput represents input for settling an installment
type MarkPaidInput struct {
	PaidDate      *time.Time `json:"paidDate,omitempty"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	TransactionID string     `json:"transactionId,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

// CreateChargeInput represents input for requesting a gateway charge
type CreateChargeInput struct {
	PaymentID *uuid.UUID   `json:"paymentId,omitempty"`
	Method    ChargeMethod `json:"method" binding:"required"`
}

// ChargeData holds the gateway reference fields stored on a payment
type ChargeData struct {
	ChargeID   string `json:"chargeId"`
	PixQRCode  string `json:"pixQrCode,omitempty"`
	BoletoURL  string `json:"boletoUrl,omitempty"`
	PaymentURL string `json:"paymentUrl,omitempty"`
}

// ComplianceStats summarizes a member's payment standing
type ComplianceStats struct {
	IsAdimplente bool             `json:"isAdimplente"`
	TotalPaid    float64          `json:"totalPaid"`
	TotalPending float64          `json:"totalPending"`
	OverdueCount int64            `json:"overdueCount"`
	NextPayment  *NextInstallment `json:"nextPayment,omitempty"`
}

// MonthlyStat is one bucket of the dashboard 12-month series
type MonthlyStat struct {
	Month    string  `json:"month"`
	Payments int64   `json:"payments"`
	Revenue  float64 `json:"revenue"`
}

// OverdueReportRow is one line of the admin overdue report
type OverdueReportRow struct {
	UserID    uuid.UUID `json:"userId"`
	UserName  string    `json:"userName"`
	UserEmail string    `json:"userEmail"`
	PaymentID uuid.UUID `json:"paymentId"`
	Amount    float64   `json:"amount"`
	DueDate   time.Time `json:"dueDate"`
	DaysLate  int       `json:"daysLate"`
}
