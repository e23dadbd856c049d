package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"habita-coop.backend/internal/domain/entities"
	domainerrors "habita-coop.backend/internal/domain/errors"
	"habita-coop.backend/internal/infrastructure/models"
)

// TermsRepository implements versioned legal text and acceptance operations
type TermsRepository struct {
	db *gorm.DB
}

// NewTermsRepository creates a new terms repository
func NewTermsRepository(db *gorm.DB) *TermsRepository {
	return &TermsRepository{db: db}
}

// CreateTerm inserts a new term version
func (r *TermsRepository) CreateTerm(ctx context.Context, term *entities.TermsOfAcceptance) error {
	m := &models.TermsOfAcceptance{
		ID:        term.ID,
		Version:   term.Version,
		Content:   term.Content,
		IsActive:  term.IsActive,
		CreatedAt: term.CreatedAt,
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	term.ID = m.ID
	return nil
}

// GetActiveTerm gets the single active term version
func (r *TermsRepository) GetActiveTerm(ctx context.Context) (*entities.TermsOfAcceptance, error) {
	var m models.TermsOfAcceptance
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("is_active = ?", true).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.termToEntity(&m), nil
}

// GetTermByID gets a term version by ID
func (r *TermsRepository) GetTermByID(ctx context.Context, id uuid.UUID) (*entities.TermsOfAcceptance, error) {
	var m models.TermsOfAcceptance
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.termToEntity(&m), nil
}

// ListTerms gets all term versions, newest first
func (r *TermsRepository) ListTerms(ctx context.Context) ([]*entities.TermsOfAcceptance, error) {
	var ms []models.TermsOfAcceptance
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	var out []*entities.TermsOfAcceptance
	for i := range ms {
		out = append(out, r.termToEntity(&ms[i]))
	}
	return out, nil
}

// DeactivateAll clears the active flag on every term version. Paired with
// CreateTerm inside a unit-of-work transaction when publishing a new version.
func (r *TermsRepository) DeactivateAll(ctx context.Context) error {
	db := GetDB(ctx, r.db)
	return db.WithContext(ctx).Model(&models.TermsOfAcceptance{}).
		Where("is_active = ?", true).
		Update("is_active", false).Error
}

// CreateAcceptance appends a member's acceptance record
func (r *TermsRepository) CreateAcceptance(ctx context.Context, acceptance *entities.TermAcceptance) error {
	m := &models.TermAcceptance{
		ID:         acceptance.ID,
		UserID:     acceptance.UserID,
		TermID:     acceptance.TermID,
		AcceptedAt: acceptance.AcceptedAt,
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	acceptance.ID = m.ID
	return nil
}

// HasAccepted reports whether a member already accepted a term version
func (r *TermsRepository) HasAccepted(ctx context.Context, userID, termID uuid.UUID) (bool, error) {
	var count int64
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Model(&models.TermAcceptance{}).
		Where("user_id = ? AND term_id = ?", userID, termID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *TermsRepository) termToEntity(m *models.TermsOfAcceptance) *entities.TermsOfAcceptance {
	return &entities.TermsOfAcceptance{
		ID:        m.ID,
		Version:   m.Version,
		Content:   m.Content,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}
