package repositories

import (
	"context"

	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"habita-coop.backend/internal/domain/entities"
	"habita-coop.backend/internal/infrastructure/models"
)

// ContactRepository implements contact submission operations
type ContactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create appends a contact submission
func (r *ContactRepository) Create(ctx context.Context, contact *entities.ContactSubmission) error {
	m := &models.ContactSubmission{
		ID:        contact.ID,
		Name:      contact.Name,
		Email:     contact.Email,
		Phone:     contact.Phone.Ptr(),
		Message:   contact.Message,
		CreatedAt: contact.CreatedAt,
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	contact.ID = m.ID
	return nil
}

// List gets contact submissions with pagination, newest first
func (r *ContactRepository) List(ctx context.Context, limit, offset int) ([]*entities.ContactSubmission, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ContactSubmission{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.ContactSubmission
	q := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	var out []*entities.ContactSubmission
	for i := range ms {
		out = append(out, &entities.ContactSubmission{
			ID:        ms[i].ID,
			Name:      ms[i].Name,
			Email:     ms[i].Email,
			Phone:     null.StringFromPtr(ms[i].Phone),
			Message:   ms[i].Message,
			CreatedAt: ms[i].CreatedAt,
		})
	}
	return out, total, nil
}

// CountAll counts all contact submissions
func (r *ContactRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ContactSubmission{}).Count(&count).Error
	return count, err
}
