package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"habita-coop.backend/internal/domain/entities"
	domainerrors "habita-coop.backend/internal/domain/errors"
	"habita-coop.backend/internal/domain/repositories"
)

// TermsUsecase manages versioned terms of service and member acceptances
type TermsUsecase struct {
	termsRepo repositories.TermsRepository
	uow       repositories.UnitOfWork

	now func() time.Time
}

// NewTermsUsecase creates a new terms usecase
func NewTermsUsecase(termsRepo repositories.TermsRepository, uow repositories.UnitOfWork) *TermsUsecase {
	return &TermsUsecase{termsRepo: termsRepo, uow: uow, now: time.Now}
}

// Publish creates a new term version and makes it the single active one.
// Deactivation and creation run in one transaction so readers never see two
// active versions.
func (u *TermsUsecase) Publish(ctx context.Context, input *entities.CreateTermInput) (*entities.TermsOfAcceptance, error) {
	term := &entities.TermsOfAcceptance{
		ID:        uuid.New(),
		Version:   input.Version,
		Content:   input.Content,
		IsActive:  true,
		CreatedAt: u.now(),
	}
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.termsRepo.DeactivateAll(txCtx); err != nil {
			return err
		}
		return u.termsRepo.CreateTerm(txCtx, term)
	})
	if err != nil {
		return nil, err
	}
	return term, nil
}

// GetActive gets the currently active term version
func (u *TermsUsecase) GetActive(ctx context.Context) (*entities.TermsOfAcceptance, error) {
	return u.termsRepo.GetActiveTerm(ctx)
}

// List lists every published version, newest first
func (u *TermsUsecase) List(ctx context.Context) ([]*entities.TermsOfAcceptance, error) {
	return u.termsRepo.ListTerms(ctx)
}

// Accept records a member's acceptance of a term version. Accepting the same
// version twice is a no-op.
func (u *TermsUsecase) Accept(ctx context.Context, userID, termID uuid.UUID) (*entities.TermAcceptance, error) {
	if _, err := u.termsRepo.GetTermByID(ctx, termID); err != nil {
		return nil, err
	}

	accepted, err := u.termsRepo.HasAccepted(ctx, userID, termID)
	if err != nil {
		return nil, err
	}
	if accepted {
		return nil, domainerrors.Conflict("term version already accepted")
	}

	acceptance := &entities.TermAcceptance{
		ID:         uuid.New(),
		UserID:     userID,
		TermID:     termID,
		AcceptedAt: u.now(),
	}
	if err := u.termsRepo.CreateAcceptance(ctx, acceptance); err != nil {
		return nil, err
	}
	return acceptance, nil
}

// HasAccepted reports whether the member accepted the active term version
func (u *TermsUsecase) HasAccepted(ctx context.Context, userID uuid.UUID) (bool, *entities.TermsOfAcceptance, error) {
	term, err := u.termsRepo.GetActiveTerm(ctx)
	if err != nil {
		return false, nil, err
	}
	accepted, err := u.termsRepo.HasAccepted(ctx, userID, term.ID)
	if err != nil {
		return false, nil, err
	}
	return accepted, term, nil
}
