package usecases

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"habita-coop.backend/internal/config"
	"habita-coop.backend/internal/domain/entities"
	"habita-coop.backend/internal/infrastructure/gateway"
	"habita-coop.backend/internal/infrastructure/repositories"
)

var testBilling = config.BillingConfig{
	InstallmentAmount: 150.00,
	PaymentDays:       []int{10, 20},
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")

	for _, q := range []string{
		`CREATE TABLE associations (
			id TEXT PRIMARY KEY,
			cnpj TEXT NOT NULL UNIQUE,
			corporate_name TEXT NOT NULL,
			trade_name TEXT,
			email TEXT NOT NULL UNIQUE,
			phone TEXT,
			address TEXT,
			city TEXT,
			state TEXT,
			zip_code TEXT,
			password_hash TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT 0,
			is_approved BOOLEAN NOT NULL DEFAULT 0,
			is_default BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		);`,
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			phone TEXT,
			cpf TEXT,
			password_hash TEXT NOT NULL,
			is_admin BOOLEAN NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			fake BOOLEAN NOT NULL DEFAULT 0,
			payment_day INTEGER NOT NULL,
			association_id TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		);`,
		`CREATE TABLE user_profiles (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE,
			address TEXT,
			city TEXT,
			state TEXT,
			zip_code TEXT,
			birth_date DATETIME,
			marital_status TEXT,
			profession TEXT,
			monthly_income REAL,
			notes TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE payments (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			amount REAL NOT NULL,
			due_date DATETIME NOT NULL,
			paid_date DATETIME,
			status TEXT NOT NULL,
			payment_method TEXT,
			transaction_id TEXT,
			notes TEXT,
			charge_id TEXT UNIQUE,
			pix_qr_code TEXT,
			boleto_url TEXT,
			payment_url TEXT,
			created_at DATETIME,
			updated_at DATETIME,
			UNIQUE (user_id, due_date)
		);`,
		`CREATE TABLE contact_submissions (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT,
			message TEXT NOT NULL,
			created_at DATETIME
		);`,
		`CREATE TABLE project_statuses (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE,
			phase TEXT NOT NULL,
			progress_percentage INTEGER NOT NULL DEFAULT 0,
			notes TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE terms_of_acceptances (
			id TEXT PRIMARY KEY,
			version TEXT NOT NULL,
			content TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME
		);`,
		`CREATE TABLE term_acceptances (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			term_id TEXT NOT NULL,
			accepted_at DATETIME,
			UNIQUE (user_id, term_id)
		);`,
	} {
		require.NoError(t, db.Exec(q).Error, "create schema")
	}
	return db
}

func seedAssociation(t *testing.T, db *gorm.DB, isDefault bool) *entities.Association {
	t.Helper()
	repo := repositories.NewAssociationRepository(db)
	a := &entities.Association{
		ID:            uuid.New(),
		CNPJ:          fmt.Sprintf("%08d/0001-00", time.Now().UnixNano()%100000000),
		CorporateName: "Associação Habitacional Horizonte",
		Email:         fmt.Sprintf("assoc-%s@example.org", uuid.NewString()[:8]),
		PasswordHash:  "hash",
		IsActive:      true,
		IsApproved:    true,
		IsDefault:     isDefault,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), a))
	if isDefault {
		require.NoError(t, repo.SetDefault(context.Background(), a.ID))
	}
	return a
}

func seedUser(t *testing.T, db *gorm.DB, paymentDay int, registeredAt time.Time) *entities.User {
	t.Helper()
	repo := repositories.NewUserRepository(db)
	u := &entities.User{
		ID:            uuid.New(),
		Name:          "Maria Souza",
		Email:         fmt.Sprintf("member-%s@example.com", uuid.NewString()[:8]),
		PasswordHash:  "hash",
		IsActive:      true,
		PaymentDay:    paymentDay,
		AssociationID: uuid.New(),
		CreatedAt:     registeredAt,
		UpdatedAt:     registeredAt,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

// fakeGateway records charge requests and hands back canned references.
type fakeGateway struct {
	calls int
	err   error
}

func (g *fakeGateway) CreateCharge(_ context.Context, req *gateway.ChargeRequest) (*gateway.Charge, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return &gateway.Charge{
		ChargeID:   fmt.Sprintf("ch_%s_%d", req.PaymentID.String()[:8], g.calls),
		PixQRCode:  "00020126qrcode",
		BoletoURL:  "https://gateway.example.com/boleto/123",
		PaymentURL: "https://gateway.example.com/pay/123",
	}, nil
}

func newPaymentUsecase(db *gorm.DB, gw ChargeGateway, now time.Time) *PaymentUsecase {
	uc := NewPaymentUsecase(
		repositories.NewPaymentRepository(db),
		repositories.NewUserRepository(db),
		repositories.NewUnitOfWork(db),
		gw,
		testBilling,
	)
	uc.now = func() time.Time { return now }
	return uc
}
