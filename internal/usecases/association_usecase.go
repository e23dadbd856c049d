package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"habita-coop.backend/internal/domain/entities"
	domainerrors "habita-coop.backend/internal/domain/errors"
	"habita-coop.backend/internal/domain/repositories"
	"habita-coop.backend/pkg/crypto"
)

// AssociationUsecase handles the association approval/default state machine
type AssociationUsecase struct {
	associationRepo repositories.AssociationRepository
	userRepo        repositories.UserRepository
	paymentRepo     repositories.PaymentRepository
	uow             repositories.UnitOfWork

	now func() time.Time
}

// NewAssociationUsecase creates a new association usecase
func NewAssociationUsecase(
	associationRepo repositories.AssociationRepository,
	userRepo repositories.UserRepository,
	paymentRepo repositories.PaymentRepository,
	uow repositories.UnitOfWork,
) *AssociationUsecase {
	return &AssociationUsecase{
		associationRepo: associationRepo,
		userRepo:        userRepo,
		paymentRepo:     paymentRepo,
		uow:             uow,
		now:             time.Now,
	}
}

// Register handles association self-registration. New associations start
// unapproved and inactive: they stay out of public listings until an admin
// approves them.
func (u *AssociationUsecase) Register(ctx context.Context, input *entities.RegisterAssociationInput) (*entities.Association, error) {
	if !validCNPJ(input.CNPJ) {
		return nil, domainerrors.BadRequest("invalid CNPJ")
	}

	existing, err := u.associationRepo.GetByCNPJ(ctx, input.CNPJ)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domainerrors.Conflict("an association with this CNPJ already exists")
	}

	byEmail, err := u.associationRepo.GetByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	if byEmail != nil {
		return nil, domainerrors.Conflict("an association with this email already exists")
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := u.now()
	association := &entities.Association{
		ID:            uuid.New(),
		CNPJ:          input.CNPJ,
		CorporateName: input.CorporateName,
		TradeName:     null.NewString(input.TradeName, input.TradeName != ""),
		Email:         input.Email,
		Phone:         null.NewString(input.Phone, input.Phone != ""),
		Address:       null.NewString(input.Address, input.Address != ""),
		City:          null.NewString(input.City, input.City != ""),
		State:         null.NewString(input.State, input.State != ""),
		ZipCode:       null.NewString(input.ZipCode, input.ZipCode != ""),
		PasswordHash:  hash,
		IsActive:      false,
		IsApproved:    false,
		IsDefault:     false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := u.associationRepo.Create(ctx, association); err != nil {
		return nil, err
	}
	return association, nil
}

// CreateByAdmin creates a pre-approved association from the back-office
func (u *AssociationUsecase) CreateByAdmin(ctx context.Context, input *entities.RegisterAssociationInput) (*entities.Association, error) {
	association, err := u.Register(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := u.associationRepo.SetApproved(ctx, association.ID, true); err != nil {
		return nil, err
	}
	association.IsApproved = true
	association.IsActive = true
	return association, nil
}

// GetByID gets an association
func (u *AssociationUsecase) GetByID(ctx context.Context, id uuid.UUID) (*entities.Association, error) {
	return u.associationRepo.GetByID(ctx, id)
}

// List lists associations; public callers only see approved ones
func (u *AssociationUsecase) List(ctx context.Context, onlyApproved bool) ([]*entities.Association, error) {
	return u.associationRepo.List(ctx, onlyApproved)
}

// Update edits association profile fields
func (u *AssociationUsecase) Update(ctx context.Context, id uuid.UUID, input *entities.UpdateAssociationInput) (*entities.Association, error) {
	association, err := u.associationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.CorporateName != nil {
		association.CorporateName = *input.CorporateName
	}
	if input.TradeName != nil {
		association.TradeName = null.StringFrom(*input.TradeName)
	}
	if input.Email != nil {
		association.Email = *input.Email
	}
	if input.Phone != nil {
		association.Phone = null.StringFrom(*input.Phone)
	}
	if input.Address != nil {
		association.Address = null.StringFrom(*input.Address)
	}
	if input.City != nil {
		association.City = null.StringFrom(*input.City)
	}
	if input.State != nil {
		association.State = null.StringFrom(*input.State)
	}
	if input.ZipCode != nil {
		association.ZipCode = null.StringFrom(*input.ZipCode)
	}

	if err := u.associationRepo.Update(ctx, association); err != nil {
		return nil, err
	}
	return association, nil
}

// Approve moves an association from unapproved to approved and activates it
func (u *AssociationUsecase) Approve(ctx context.Context, id uuid.UUID) (*entities.Association, error) {
	if err := u.associationRepo.SetApproved(ctx, id, true); err != nil {
		return nil, err
	}
	return u.associationRepo.GetByID(ctx, id)
}

// ToggleActive flips the active flag of an approved association. The
// default association cannot be deactivated.
func (u *AssociationUsecase) ToggleActive(ctx context.Context, id uuid.UUID) (*entities.Association, error) {
	association, err := u.associationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !association.IsApproved {
		return nil, domainerrors.BadRequest("association is pending approval")
	}
	if association.IsDefault && association.IsActive {
		return nil, domainerrors.BadRequest("the default association cannot be deactivated")
	}
	if err := u.associationRepo.SetActive(ctx, id, !association.IsActive); err != nil {
		return nil, err
	}
	return u.associationRepo.GetByID(ctx, id)
}

// SetDefault designates an association as the system default. The clear and
// set run in one transaction so there is never a moment with zero or two
// defaults.
func (u *AssociationUsecase) SetDefault(ctx context.Context, id uuid.UUID) (*entities.Association, error) {
	association, err := u.associationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !association.IsApproved || !association.IsActive {
		return nil, domainerrors.BadRequest("only an active approved association can be the default")
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.associationRepo.ClearDefault(txCtx); err != nil {
			return err
		}
		return u.associationRepo.SetDefault(txCtx, id)
	})
	if err != nil {
		return nil, err
	}
	return u.associationRepo.GetByID(ctx, id)
}

// Delete applies the deletion guard: the default association is refused
// outright, an association with members is deactivated instead, and only an
// empty non-default association is hard-deleted.
func (u *AssociationUsecase) Delete(ctx context.Context, id uuid.UUID) (entities.DeleteAssociationResult, error) {
	association, err := u.associationRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if association.IsDefault {
		return "", domainerrors.NewAppError(400, "the default association cannot be deleted", domainerrors.ErrDefaultAssociation)
	}

	userCount, err := u.userRepo.CountByAssociation(ctx, id, false)
	if err != nil {
		return "", err
	}
	if userCount > 0 {
		if err := u.associationRepo.SetActive(ctx, id, false); err != nil {
			return "", err
		}
		return entities.AssociationDeactivated, nil
	}

	if err := u.associationRepo.Delete(ctx, id); err != nil {
		return "", err
	}
	return entities.AssociationDeleted, nil
}

// Metrics summarizes an association's membership and compliance split
func (u *AssociationUsecase) Metrics(ctx context.Context, id uuid.UUID) (*entities.AssociationMetrics, error) {
	if _, err := u.associationRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	total, err := u.userRepo.CountByAssociation(ctx, id, false)
	if err != nil {
		return nil, err
	}
	active, err := u.userRepo.CountByAssociation(ctx, id, true)
	if err != nil {
		return nil, err
	}
	inadimplentes, err := u.paymentRepo.CountUsersOverdueByAssociation(ctx, id, u.now())
	if err != nil {
		return nil, err
	}

	return &entities.AssociationMetrics{
		AssociationID: id,
		TotalUsers:    total,
		ActiveUsers:   active,
		Adimplentes:   active - inadimplentes,
		Inadimplentes: inadimplentes,
	}, nil
}

// validCNPJ checks the 14-digit format with or without punctuation
func validCNPJ(cnpj string) bool {
	digits := 0
	for _, r := range cnpj {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' || r == '/' || r == '-':
		default:
			return false
		}
	}
	return digits == 14
}
