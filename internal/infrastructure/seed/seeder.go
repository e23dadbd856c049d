package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"habita-coop.backend/internal/config"
	"habita-coop.backend/internal/domain/entities"
	"habita-coop.backend/internal/infrastructure/models"
	"habita-coop.backend/pkg/crypto"
	"habita-coop.backend/pkg/logger"
)

var firstNames = []string{
	"Ana", "Bruno", "Carla", "Daniel", "Eduarda", "Felipe", "Gabriela",
	"Henrique", "Isabela", "João", "Karina", "Lucas", "Mariana", "Nicolas",
	"Olívia", "Paulo", "Rafaela", "Samuel", "Tatiana", "Vinícius",
}

var lastNames = []string{
	"Silva", "Santos", "Oliveira", "Souza", "Lima", "Pereira", "Costa",
	"Rodrigues", "Almeida", "Nascimento", "Carvalho", "Gomes", "Martins",
	"Araújo", "Ribeiro", "Fernandes", "Barbosa", "Rocha", "Dias", "Moreira",
}

var associationNames = []struct {
	corporate string
	trade     string
}{
	{"Associação Habitacional Horizonte Ltda", "Horizonte"},
	{"Cooperativa Morada Nova", "Morada Nova"},
	{"Associação Residencial Bela Vista", "Bela Vista"},
	{"Cooperativa Habitacional Jardim das Flores", "Jardim das Flores"},
	{"Associação Comunitária Vila Esperança", "Vila Esperança"},
}

// Seeder populates the database with demo members and their installments.
// Runs are idempotent: only the shortfall to the configured target is
// created, so re-running against a seeded database is a no-op.
type Seeder struct {
	db      *gorm.DB
	cfg     config.SeedConfig
	billing config.BillingConfig

	now func() time.Time
	rng *rand.Rand
}

// NewSeeder creates a new seeder
func NewSeeder(db *gorm.DB, cfg config.SeedConfig, billing config.BillingConfig) *Seeder {
	return &Seeder{
		db:      db,
		cfg:     cfg,
		billing: billing,
		now:     time.Now,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run seeds associations, members and payments up to the configured target
func (s *Seeder) Run(ctx context.Context) error {
	associations, err := s.ensureAssociations(ctx)
	if err != nil {
		return fmt.Errorf("seed associations: %w", err)
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("fake = ?", true).Count(&existing).Error; err != nil {
		return fmt.Errorf("count seeded users: %w", err)
	}

	shortfall := s.cfg.TargetUsers - int(existing)
	if shortfall <= 0 {
		logger.Info(ctx, "seed target already met",
			zap.Int64("existing", existing), zap.Int("target", s.cfg.TargetUsers))
		return nil
	}
	logger.Info(ctx, "seeding users",
		zap.Int("shortfall", shortfall), zap.Int("batchSize", s.cfg.BatchSize))

	// One bcrypt hash shared by every fake user keeps 30k inserts cheap.
	passwordHash, err := crypto.HashPassword("senha-demo-123")
	if err != nil {
		return err
	}

	created := 0
	for created < shortfall {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		size := s.cfg.BatchSize
		if remaining := shortfall - created; remaining < size {
			size = remaining
		}

		users, payments := s.buildBatch(size, int(existing)+created, passwordHash, associations)
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&users).Error; err != nil {
				return err
			}
			return tx.Create(&payments).Error
		})
		if err != nil {
			return fmt.Errorf("seed batch at offset %d: %w", created, err)
		}
		created += size
	}

	logger.Info(ctx, "seeding complete", zap.Int("created", created))
	return nil
}

// ensureAssociations creates the default association plus a handful of
// approved ones, keyed by CNPJ so repeat runs reuse the existing rows.
func (s *Seeder) ensureAssociations(ctx context.Context) ([]models.Association, error) {
	passwordHash, err := crypto.HashPassword("senha-demo-123")
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]models.Association, 0, len(associationNames))
	for i, name := range associationNames {
		cnpj := fmt.Sprintf("00.000.000/%04d-00", i+1)

		var existing models.Association
		err := s.db.WithContext(ctx).Where("cnpj = ?", cnpj).First(&existing).Error
		if err == nil {
			out = append(out, existing)
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}

		trade := name.trade
		assoc := models.Association{
			ID:            uuid.New(),
			CNPJ:          cnpj,
			CorporateName: name.corporate,
			TradeName:     &trade,
			Email:         fmt.Sprintf("contato%d@habitacoop.com.br", i+1),
			PasswordHash:  passwordHash,
			IsActive:      true,
			IsApproved:    true,
			IsDefault:     i == 0,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.db.WithContext(ctx).Create(&assoc).Error; err != nil {
			return nil, err
		}
		out = append(out, assoc)
	}
	return out, nil
}

// buildBatch generates one batch of fake users with one or two installments
// each. Roughly cfg.PaidRatio of the users get settled installments; the
// rest get open future-dated ones.
func (s *Seeder) buildBatch(size, offset int, passwordHash string, associations []models.Association) ([]models.User, []models.Payment) {
	now := s.now()
	users := make([]models.User, 0, size)
	payments := make([]models.Payment, 0, size*2)

	for i := 0; i < size; i++ {
		seq := offset + i
		first := firstNames[s.rng.Intn(len(firstNames))]
		last := lastNames[s.rng.Intn(len(lastNames))]
		paymentDay := s.billing.PaymentDays[s.rng.Intn(len(s.billing.PaymentDays))]
		assoc := associations[s.rng.Intn(len(associations))]

		user := models.User{
			ID:            uuid.New(),
			Name:          fmt.Sprintf("%s %s", first, last),
			Email:         fmt.Sprintf("demo.%06d@habitacoop.com.br", seq),
			PasswordHash:  passwordHash,
			IsActive:      true,
			Fake:          true,
			PaymentDay:    paymentDay,
			AssociationID: assoc.ID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		users = append(users, user)
		payments = append(payments, s.buildInstallments(user.ID, paymentDay, now)...)
	}
	return users, payments
}

// buildInstallments gives a paid member 1-2 settled past installments with
// settlement dates spread across today, earlier this month and the due date
// itself, so every dashboard bucket has data. Everyone else gets 1-2 open
// installments walking forward from the next due date.
func (s *Seeder) buildInstallments(userID uuid.UUID, paymentDay int, now time.Time) []models.Payment {
	count := 1 + s.rng.Intn(2)
	next := entities.NextDueDate(paymentDay, now)
	out := make([]models.Payment, 0, count)

	paid := s.rng.Float64() < s.cfg.PaidRatio
	for j := 0; j < count; j++ {
		payment := models.Payment{
			ID:        uuid.New(),
			UserID:    userID,
			Amount:    s.billing.InstallmentAmount,
			Status:    string(entities.PaymentStatusPending),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if paid {
			payment.DueDate = next.AddDate(0, -(j + 1), 0)
			paidDate := s.paidDate(payment.DueDate, now)
			payment.PaidDate = &paidDate
			payment.Status = string(entities.PaymentStatusPaid)
		} else {
			payment.DueDate = next.AddDate(0, j, 0)
		}
		out = append(out, payment)
	}
	return out
}

// paidDate picks a settlement date for a seeded paid installment: today,
// earlier in the current month, or the installment's own due date.
func (s *Seeder) paidDate(due, now time.Time) time.Time {
	switch s.rng.Intn(3) {
	case 0:
		return now
	case 1:
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return monthStart.AddDate(0, 0, s.rng.Intn(now.Day()))
	default:
		return due
	}
}
