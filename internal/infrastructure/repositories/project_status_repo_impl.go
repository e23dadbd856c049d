package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"habita-coop.backend/internal/domain/entities"
	domainerrors "habita-coop.backend/internal/domain/errors"
	"habita-coop.backend/internal/infrastructure/models"
)

// ProjectStatusRepository implements construction-progress operations
type ProjectStatusRepository struct {
	db *gorm.DB
}

// NewProjectStatusRepository creates a new project status repository
func NewProjectStatusRepository(db *gorm.DB) *ProjectStatusRepository {
	return &ProjectStatusRepository{db: db}
}

// GetByUserID gets a member's progress record
func (r *ProjectStatusRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.ProjectStatus, error) {
	var m models.ProjectStatus
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.ProjectStatus{
		ID:                 m.ID,
		UserID:             m.UserID,
		Phase:              entities.ProjectPhase(m.Phase),
		ProgressPercentage: m.ProgressPercentage,
		Notes:              null.StringFromPtr(m.Notes),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}, nil
}

// Upsert creates or replaces a member's progress record
func (r *ProjectStatusRepository) Upsert(ctx context.Context, status *entities.ProjectStatus) error {
	m := &models.ProjectStatus{
		ID:                 status.ID,
		UserID:             status.UserID,
		Phase:              string(status.Phase),
		ProgressPercentage: status.ProgressPercentage,
		Notes:              status.Notes.Ptr(),
		CreatedAt:          status.CreatedAt,
		UpdatedAt:          status.UpdatedAt,
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"phase", "progress_percentage", "notes", "updated_at"}),
	}).Create(m).Error; err != nil {
		return err
	}
	status.ID = m.ID
	return nil
}
