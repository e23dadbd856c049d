package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"habita-coop.backend/internal/domain/entities"
	domainerrors "habita-coop.backend/internal/domain/errors"
)

func newTestUser(email string, assocID uuid.UUID) *entities.User {
	return &entities.User{
		ID:            uuid.New(),
		Name:          "Maria Souza",
		Email:         email,
		Phone:         null.StringFrom("11999990000"),
		CPF:           null.StringFrom("123.456.789-00"),
		PasswordHash:  "hash",
		IsActive:      true,
		PaymentDay:    10,
		AssociationID: assocID,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	createAssociationTable(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := newTestUser("maria@example.com", uuid.New())
	require.NoError(t, repo.Create(ctx, u))

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, byID.Email)
	require.Equal(t, 10, byID.PaymentDay)
	require.Equal(t, "123.456.789-00", byID.CPF.String)

	byEmail, err := repo.GetByEmail(ctx, "maria@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUserRepository_CreatePreservesInactiveFlag(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	createAssociationTable(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	// The column default is true; an explicitly inactive user must not be
	// silently reactivated on insert.
	u := newTestUser("inactive@example.com", uuid.New())
	u.IsActive = false
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)
}

func TestUserRepository_ListFilters(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	assocA := uuid.New()
	assocB := uuid.New()

	a := newTestUser("ana@example.com", assocA)
	a.Name = "Ana Lima"
	require.NoError(t, repo.Create(ctx, a))

	b := newTestUser("bruno@example.com", assocB)
	b.Name = "Bruno Costa"
	require.NoError(t, repo.Create(ctx, b))

	inactive := newTestUser("carla@example.com", assocA)
	inactive.Name = "Carla Dias"
	inactive.IsActive = false
	require.NoError(t, repo.Create(ctx, inactive))

	users, total, err := repo.List(ctx, entities.UserFilter{Query: "ana"})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "Ana Lima", users[0].Name)

	_, total, err = repo.List(ctx, entities.UserFilter{AssociationID: &assocA})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)

	_, total, err = repo.List(ctx, entities.UserFilter{AssociationID: &assocA, OnlyActive: true})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)

	page, total, err := repo.List(ctx, entities.UserFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, page, 1)
}

func TestUserRepository_UpdateAndPassword(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	createAssociationTable(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := newTestUser("maria@example.com", uuid.New())
	require.NoError(t, repo.Create(ctx, u))

	u.Name = "Maria S. Oliveira"
	u.PaymentDay = 20
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Maria S. Oliveira", got.Name)
	require.Equal(t, 20, got.PaymentDay)

	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "new-hash"))
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)

	require.ErrorIs(t, repo.Update(ctx, newTestUser("ghost@example.com", uuid.New())), domainerrors.ErrNotFound)
	require.ErrorIs(t, repo.UpdatePassword(ctx, uuid.New(), "x"), domainerrors.ErrNotFound)
}

func TestUserRepository_SetActiveAndCounts(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	createAssociationTable(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	assocID := uuid.New()
	u := newTestUser("maria@example.com", assocID)
	require.NoError(t, repo.Create(ctx, u))

	fake := newTestUser("demo@example.com", assocID)
	fake.Fake = true
	require.NoError(t, repo.Create(ctx, fake))

	require.NoError(t, repo.SetActive(ctx, u.ID, false))
	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)

	all, err := repo.CountByAssociation(ctx, assocID, false)
	require.NoError(t, err)
	require.EqualValues(t, 2, all)

	active, err := repo.CountByAssociation(ctx, assocID, true)
	require.NoError(t, err)
	require.EqualValues(t, 1, active)

	fakes, err := repo.CountFake(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, fakes)

	total, err := repo.CountAll(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
}

func TestUserRepository_ProfileUpsert(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	createUserProfileTable(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	_, err := repo.GetProfile(ctx, userID)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	profile := &entities.UserProfile{
		UserID:     userID,
		City:       null.StringFrom("São Paulo"),
		State:      null.StringFrom("SP"),
		Profession: null.StringFrom("Professora"),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	require.NoError(t, repo.UpsertProfile(ctx, profile))
	require.NotEqual(t, uuid.Nil, profile.ID)

	// Second upsert replaces fields, not rows.
	profile.City = null.StringFrom("Campinas")
	require.NoError(t, repo.UpsertProfile(ctx, profile))

	got, err := repo.GetProfile(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "Campinas", got.City.String)
	require.Equal(t, "SP", got.State.String)
}
