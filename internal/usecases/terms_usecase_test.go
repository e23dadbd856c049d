package usecases

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"habita-coop.backend/internal/domain/entities"
	domainerrors "habita-coop.backend/internal/domain/errors"
	"habita-coop.backend/internal/infrastructure/repositories"
)

func newTermsUsecase(db *gorm.DB) *TermsUsecase {
	return NewTermsUsecase(repositories.NewTermsRepository(db), repositories.NewUnitOfWork(db))
}

func TestTermsUsecase_PublishReplacesActiveVersion(t *testing.T) {
	db := newTestDB(t)
	uc := newTermsUsecase(db)
	ctx := context.Background()

	_, err := uc.GetActive(ctx)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	v1, err := uc.Publish(ctx, &entities.CreateTermInput{Version: "1.0", Content: "Termos v1"})
	require.NoError(t, err)
	require.True(t, v1.IsActive)

	v2, err := uc.Publish(ctx, &entities.CreateTermInput{Version: "2.0", Content: "Termos v2"})
	require.NoError(t, err)

	active, err := uc.GetActive(ctx)
	require.NoError(t, err)
	require.Equal(t, v2.ID, active.ID)

	var activeCount int64
	require.NoError(t, db.Table("terms_of_acceptances").Where("is_active = ?", true).Count(&activeCount).Error)
	require.EqualValues(t, 1, activeCount)

	all, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestTermsUsecase_AcceptOncePerVersion(t *testing.T) {
	db := newTestDB(t)
	uc := newTermsUsecase(db)
	ctx := context.Background()
	userID := uuid.New()

	v1, err := uc.Publish(ctx, &entities.CreateTermInput{Version: "1.0", Content: "Termos v1"})
	require.NoError(t, err)

	accepted, term, err := uc.HasAccepted(ctx, userID)
	require.NoError(t, err)
	require.False(t, accepted)
	require.Equal(t, v1.ID, term.ID)

	acceptance, err := uc.Accept(ctx, userID, v1.ID)
	require.NoError(t, err)
	require.Equal(t, v1.ID, acceptance.TermID)

	_, err = uc.Accept(ctx, userID, v1.ID)
	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)

	_, err = uc.Accept(ctx, userID, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	// A new version requires a fresh acceptance.
	v2, err := uc.Publish(ctx, &entities.CreateTermInput{Version: "2.0", Content: "Termos v2"})
	require.NoError(t, err)
	accepted, term, err = uc.HasAccepted(ctx, userID)
	require.NoError(t, err)
	require.False(t, accepted)
	require.Equal(t, v2.ID, term.ID)

	_, err = uc.Accept(ctx, userID, v2.ID)
	require.NoError(t, err)
	accepted, _, err = uc.HasAccepted(ctx, userID)
	require.NoError(t, err)
	require.True(t, accepted)
}
