package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"habita-coop.backend/internal/domain/entities"
	domainerrors "habita-coop.backend/internal/domain/errors"
	"habita-coop.backend/internal/infrastructure/models"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	m := r.toModel(user)
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	user.ID = m.ID
	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var m models.User
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Preload("Association").Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByEmail gets a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var m models.User
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// List gets users matching the filter with pagination. The filter is a
// fixed set of optional parameterized conditions, never string-built SQL.
func (r *UserRepository) List(ctx context.Context, filter entities.UserFilter) ([]*entities.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		q = q.Where("name LIKE ? OR email LIKE ? OR cpf LIKE ?", like, like, like)
	}
	if filter.AssociationID != nil {
		q = q.Where("association_id = ?", *filter.AssociationID)
	}
	if filter.OnlyActive {
		q = q.Where("is_active = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := 0
	if filter.Page > 1 && filter.Limit > 0 {
		offset = (filter.Page - 1) * filter.Limit
	}
	q = q.Order("created_at DESC").Offset(offset)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var ms []models.User
	if err := q.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	var users []*entities.User
	for i := range ms {
		users = append(users, r.toEntity(&ms[i]))
	}
	return users, total, nil
}

// Update updates mutable user fields
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"name":        user.Name,
			"email":       user.Email,
			"phone":       user.Phone.Ptr(),
			"payment_day": user.PaymentDay,
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

// UpdatePassword replaces the stored password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SetActive toggles the soft-deactivation flag. Users are never hard-deleted.
func (r *UserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.User{}).
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

// CountByAssociation counts users owned by an association
func (r *UserRepository) CountByAssociation(ctx context.Context, associationID uuid.UUID, onlyActive bool) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.User{}).Where("association_id = ?", associationID)
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

// CountAll counts all users
func (r *UserRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

// CountFake counts synthetic demo users
func (r *UserRepository) CountFake(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("fake = ?", true).Count(&count).Error
	return count, err
}

// GetProfile gets a user's extended profile
func (r *UserRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*entities.UserProfile, error) {
	var m models.UserProfile
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.profileToEntity(&m), nil
}

// UpsertProfile creates or replaces a user's profile
func (r *UserRepository) UpsertProfile(ctx context.Context, profile *entities.UserProfile) error {
	m := &models.UserProfile{
		ID:            profile.ID,
		UserID:        profile.UserID,
		Address:       profile.Address.Ptr(),
		City:          profile.City.Ptr(),
		State:         profile.State.Ptr(),
		ZipCode:       profile.ZipCode.Ptr(),
		BirthDate:     profile.BirthDate.Ptr(),
		MaritalStatus: profile.MaritalStatus.Ptr(),
		Profession:    profile.Profession.Ptr(),
		MonthlyIncome: profile.MonthlyIncome.Ptr(),
		Notes:         profile.Notes.Ptr(),
		CreatedAt:     profile.CreatedAt,
		UpdatedAt:     profile.UpdatedAt,
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"address", "city", "state", "zip_code", "birth_date",
			"marital_status", "profession", "monthly_income", "notes", "updated_at",
		}),
	}).Create(m).Error; err != nil {
		return err
	}
	profile.ID = m.ID
	return nil
}

func (r *UserRepository) toModel(u *entities.User) *models.User {
	return &models.User{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone.Ptr(),
		CPF:           u.CPF.Ptr(),
		PasswordHash:  u.PasswordHash,
		IsAdmin:       u.IsAdmin,
		IsActive:      u.IsActive,
		Fake:          u.Fake,
		PaymentDay:    u.PaymentDay,
		AssociationID: u.AssociationID,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (r *UserRepository) toEntity(m *models.User) *entities.User {
	u := &entities.User{
		ID:            m.ID,
		Name:          m.Name,
		Email:         m.Email,
		Phone:         null.StringFromPtr(m.Phone),
		CPF:           null.StringFromPtr(m.CPF),
		PasswordHash:  m.PasswordHash,
		IsAdmin:       m.IsAdmin,
		IsActive:      m.IsActive,
		Fake:          m.Fake,
		PaymentDay:    m.PaymentDay,
		AssociationID: m.AssociationID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.Association.ID != uuid.Nil {
		u.Association = &entities.Association{
			ID:            m.Association.ID,
			CNPJ:          m.Association.CNPJ,
			CorporateName: m.Association.CorporateName,
			TradeName:     null.StringFromPtr(m.Association.TradeName),
			IsActive:      m.Association.IsActive,
			IsApproved:    m.Association.IsApproved,
			IsDefault:     m.Association.IsDefault,
		}
	}
	return u
}

func (r *UserRepository) profileToEntity(m *models.UserProfile) *entities.UserProfile {
	return &entities.UserProfile{
		ID:            m.ID,
		UserID:        m.UserID,
		Address:       null.StringFromPtr(m.Address),
		City:          null.StringFromPtr(m.City),
		State:         null.StringFromPtr(m.State),
		ZipCode:       null.StringFromPtr(m.ZipCode),
		BirthDate:     null.TimeFromPtr(m.BirthDate),
		MaritalStatus: null.StringFromPtr(m.MaritalStatus),
		Profession:    null.StringFromPtr(m.Profession),
		MonthlyIncome: null.Float64FromPtr(m.MonthlyIncome),
		Notes:         null.StringFromPtr(m.Notes),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
