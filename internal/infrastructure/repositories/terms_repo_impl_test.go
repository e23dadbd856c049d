package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"habita-coop.backend/internal/domain/entities"
	domainerrors "habita-coop.backend/internal/domain/errors"
)

func insertTerm(t *testing.T, repo *TermsRepository, version string, active bool) *entities.TermsOfAcceptance {
	t.Helper()
	term := &entities.TermsOfAcceptance{
		ID:        uuid.New(),
		Version:   version,
		Content:   "Termos de adesão da cooperativa, versão " + version,
		IsActive:  active,
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.CreateTerm(context.Background(), term))
	return term
}

func TestTermsRepository_ActiveVersion(t *testing.T) {
	db := newTestDB(t)
	createTermsTables(t, db)
	repo := NewTermsRepository(db)
	ctx := context.Background()

	_, err := repo.GetActiveTerm(ctx)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	v1 := insertTerm(t, repo, "1.0", true)

	active, err := repo.GetActiveTerm(ctx)
	require.NoError(t, err)
	require.Equal(t, v1.ID, active.ID)

	// Publishing a new version deactivates everything first.
	require.NoError(t, repo.DeactivateAll(ctx))
	v2 := insertTerm(t, repo, "2.0", true)

	active, err = repo.GetActiveTerm(ctx)
	require.NoError(t, err)
	require.Equal(t, v2.ID, active.ID)

	old, err := repo.GetTermByID(ctx, v1.ID)
	require.NoError(t, err)
	require.False(t, old.IsActive)

	all, err := repo.ListTerms(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestTermsRepository_Acceptance(t *testing.T) {
	db := newTestDB(t)
	createTermsTables(t, db)
	repo := NewTermsRepository(db)
	ctx := context.Background()

	term := insertTerm(t, repo, "1.0", true)
	userID := uuid.New()

	accepted, err := repo.HasAccepted(ctx, userID, term.ID)
	require.NoError(t, err)
	require.False(t, accepted)

	acc := &entities.TermAcceptance{
		ID:         uuid.New(),
		UserID:     userID,
		TermID:     term.ID,
		AcceptedAt: time.Now(),
	}
	require.NoError(t, repo.CreateAcceptance(ctx, acc))

	accepted, err = repo.HasAccepted(ctx, userID, term.ID)
	require.NoError(t, err)
	require.True(t, accepted)

	// One acceptance per member per version.
	dup := &entities.TermAcceptance{
		ID:         uuid.New(),
		UserID:     userID,
		TermID:     term.ID,
		AcceptedAt: time.Now(),
	}
	require.Error(t, repo.CreateAcceptance(ctx, dup))
}
