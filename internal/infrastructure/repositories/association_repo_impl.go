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

// AssociationRepository implements association data operations
type AssociationRepository struct {
	db *gorm.DB
}

// NewAssociationRepository creates a new association repository
func NewAssociationRepository(db *gorm.DB) *AssociationRepository {
	return &AssociationRepository{db: db}
}

// Create inserts a new association
func (r *AssociationRepository) Create(ctx context.Context, association *entities.Association) error {
	m := r.toModel(association)
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	association.ID = m.ID
	return nil
}

// GetByID gets an association by ID
func (r *AssociationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Association, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByCNPJ gets an association by its unique tax id
func (r *AssociationRepository) GetByCNPJ(ctx context.Context, cnpj string) (*entities.Association, error) {
	return r.getOne(ctx, "cnpj = ?", cnpj)
}

// GetByEmail gets an association by email
func (r *AssociationRepository) GetByEmail(ctx context.Context, email string) (*entities.Association, error) {
	return r.getOne(ctx, "email = ?", email)
}

// GetDefault gets the single default association
func (r *AssociationRepository) GetDefault(ctx context.Context) (*entities.Association, error) {
	return r.getOne(ctx, "is_default = ?", true)
}

func (r *AssociationRepository) getOne(ctx context.Context, cond string, arg interface{}) (*entities.Association, error) {
	var m models.Association
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where(cond, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// List gets associations, optionally restricted to approved ones.
// Unapproved associations must never reach public listings.
func (r *AssociationRepository) List(ctx context.Context, onlyApproved bool) ([]*entities.Association, error) {
	q := r.db.WithContext(ctx).Model(&models.Association{})
	if onlyApproved {
		q = q.Where("is_approved = ?", true)
	}
	var ms []models.Association
	if err := q.Order("corporate_name ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	var out []*entities.Association
	for i := range ms {
		out = append(out, r.toEntity(&ms[i]))
	}
	return out, nil
}

// ListActiveApproved gets associations eligible to receive members
func (r *AssociationRepository) ListActiveApproved(ctx context.Context) ([]*entities.Association, error) {
	var ms []models.Association
	if err := r.db.WithContext(ctx).
		Where("is_approved = ? AND is_active = ?", true, true).
		Order("corporate_name ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	var out []*entities.Association
	for i := range ms {
		out = append(out, r.toEntity(&ms[i]))
	}
	return out, nil
}

// Update updates association profile fields
func (r *AssociationRepository) Update(ctx context.Context, association *entities.Association) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Association{}).
		Where("id = ?", association.ID).
		Updates(map[string]interface{}{
			"corporate_name": association.CorporateName,
			"trade_name":     association.TradeName.Ptr(),
			"email":          association.Email,
			"phone":          association.Phone.Ptr(),
			"address":        association.Address.Ptr(),
			"city":           association.City.Ptr(),
			"state":          association.State.Ptr(),
			"zip_code":       association.ZipCode.Ptr(),
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SetApproved updates the approval flag. Approval also activates.
func (r *AssociationRepository) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Association{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_approved": approved,
			"is_active":   approved,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SetActive toggles the active flag
func (r *AssociationRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Association{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  active,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ClearDefault removes the default flag from whichever association holds it.
// Callers pair this with SetDefault inside a unit-of-work transaction.
func (r *AssociationRepository) ClearDefault(ctx context.Context) error {
	db := GetDB(ctx, r.db)
	return db.WithContext(ctx).Model(&models.Association{}).
		Where("is_default = ?", true).
		Updates(map[string]interface{}{
			"is_default": false,
			"updated_at": time.Now(),
		}).Error
}

// SetDefault marks an association as the system default
func (r *AssociationRepository) SetDefault(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Association{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_default": true,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// Delete hard-deletes an association. Guards (default flag, user count)
// live in the usecase.
func (r *AssociationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&models.Association{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// CountAll counts all associations
func (r *AssociationRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Association{}).Count(&count).Error
	return count, err
}

func (r *AssociationRepository) toModel(a *entities.Association) *models.Association {
	return &models.Association{
		ID:            a.ID,
		CNPJ:          a.CNPJ,
		CorporateName: a.CorporateName,
		TradeName:     a.TradeName.Ptr(),
		Email:         a.Email,
		Phone:         a.Phone.Ptr(),
		Address:       a.Address.Ptr(),
		City:          a.City.Ptr(),
		State:         a.State.Ptr(),
		ZipCode:       a.ZipCode.Ptr(),
		PasswordHash:  a.PasswordHash,
		IsActive:      a.IsActive,
		IsApproved:    a.IsApproved,
		IsDefault:     a.IsDefault,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func (r *AssociationRepository) toEntity(m *models.Association) *entities.Association {
	return &entities.Association{
		ID:            m.ID,
		CNPJ:          m.CNPJ,
		CorporateName: m.CorporateName,
		TradeName:     null.StringFromPtr(m.TradeName),
		Email:         m.Email,
		Phone:         null.StringFromPtr(m.Phone),
		Address:       null.StringFromPtr(m.Address),
		City:          null.StringFromPtr(m.City),
		State:         null.StringFromPtr(m.State),
		ZipCode:       null.StringFromPtr(m.ZipCode),
		PasswordHash:  m.PasswordHash,
		IsActive:      m.IsActive,
		IsApproved:    m.IsApproved,
		IsDefault:     m.IsDefault,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
