package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"habita-coop.backend/internal/config"
	"habita-coop.backend/internal/domain/entities"
	domainerrors "habita-coop.backend/internal/domain/errors"
	"habita-coop.backend/internal/domain/repositories"
	"habita-coop.backend/pkg/crypto"
)

// UserUsecase handles admin user management and member profiles
type UserUsecase struct {
	userRepo repositories.UserRepository
	billing  config.BillingConfig

	now func() time.Time
}

// NewUserUsecase creates a new user usecase
func NewUserUsecase(userRepo repositories.UserRepository, billing config.BillingConfig) *UserUsecase {
	return &UserUsecase{userRepo: userRepo, billing: billing, now: time.Now}
}

// List lists users matching the filter
func (u *UserUsecase) List(ctx context.Context, filter entities.UserFilter) ([]*entities.User, int64, error) {
	return u.userRepo.List(ctx, filter)
}

// GetByID gets a user
func (u *UserUsecase) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

// Update edits user fields from the back-office
func (u *UserUsecase) Update(ctx context.Context, id uuid.UUID, input *entities.UpdateUserInput) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		existing, err := u.userRepo.GetByEmail(ctx, *input.Email)
		if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, domainerrors.Conflict("a user with this email already exists")
		}
		user.Email = *input.Email
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone.SetValid(*input.Phone)
	}
	if input.PaymentDay != nil {
		// Same rule as registration: off-plan days would drift the due-date
		// day-of-month on short months.
		if !u.billing.AllowsPaymentDay(*input.PaymentDay) {
			return nil, domainerrors.BadRequest("payment day is not one of the plan's allowed days")
		}
		user.PaymentDay = *input.PaymentDay
	}

	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return u.userRepo.GetByID(ctx, id)
}

// ResetPassword generates a temporary password and stores its hash. The
// plain value is returned once so the admin can hand it to the member.
func (u *UserUsecase) ResetPassword(ctx context.Context, id uuid.UUID) (string, error) {
	if _, err := u.userRepo.GetByID(ctx, id); err != nil {
		return "", err
	}

	temporary, err := crypto.GenerateTemporaryPassword()
	if err != nil {
		return "", err
	}
	hash, err := crypto.HashPassword(temporary)
	if err != nil {
		return "", err
	}
	if err := u.userRepo.UpdatePassword(ctx, id, hash); err != nil {
		return "", err
	}
	return temporary, nil
}

// ToggleActive flips the soft-deactivation flag
func (u *UserUsecase) ToggleActive(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.userRepo.SetActive(ctx, id, !user.IsActive); err != nil {
		return nil, err
	}
	return u.userRepo.GetByID(ctx, id)
}

// GetProfile gets a member's extended profile
func (u *UserUsecase) GetProfile(ctx context.Context, userID uuid.UUID) (*entities.UserProfile, error) {
	profile, err := u.userRepo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return &entities.UserProfile{UserID: userID}, nil
		}
		return nil, err
	}
	return profile, nil
}

// UpdateProfile creates or replaces a member's extended profile
func (u *UserUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, profile *entities.UserProfile) (*entities.UserProfile, error) {
	if _, err := u.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	now := u.now()
	profile.UserID = userID
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	if err := u.userRepo.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}
	return u.userRepo.GetProfile(ctx, userID)
}
