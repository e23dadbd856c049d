package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"habita-coop.backend/internal/config"
	"habita-coop.backend/internal/domain/entities"
	domainerrors "habita-coop.backend/internal/domain/errors"
	"habita-coop.backend/internal/domain/repositories"
	"habita-coop.backend/pkg/crypto"
	"habita-coop.backend/pkg/jwt"
)

// AuthUsecase handles member registration and login
type AuthUsecase struct {
	userRepo        repositories.UserRepository
	associationRepo repositories.AssociationRepository
	paymentUsecase  *PaymentUsecase
	jwtService      *jwt.JWTService
	billing         config.BillingConfig

	now func() time.Time
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	associationRepo repositories.AssociationRepository,
	paymentUsecase *PaymentUsecase,
	jwtService *jwt.JWTService,
	billing config.BillingConfig,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:        userRepo,
		associationRepo: associationRepo,
		paymentUsecase:  paymentUsecase,
		jwtService:      jwtService,
		billing:         billing,
		now:             time.Now,
	}
}

// AuthResponse carries the authenticated principal and its tokens
type AuthResponse struct {
	User        *entities.User        `json:"user,omitempty"`
	Association *entities.Association `json:"association,omitempty"`
	Tokens      *jwt.TokenPair        `json:"tokens"`
}

// Register creates a member, attaches them to an association (the default
// one when none is given) and bootstraps their first installment.
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterUserInput) (*AuthResponse, error) {
	if !u.billing.AllowsPaymentDay(input.PaymentDay) {
		return nil, domainerrors.BadRequest("payment day is not one of the plan's allowed days")
	}

	existing, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domainerrors.Conflict("a user with this email already exists")
	}

	association, err := u.resolveAssociation(ctx, input.AssociationID)
	if err != nil {
		return nil, err
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := u.now()
	user := &entities.User{
		ID:            uuid.New(),
		Name:          input.Name,
		Email:         input.Email,
		Phone:         null.NewString(input.Phone, input.Phone != ""),
		CPF:           null.NewString(input.CPF, input.CPF != ""),
		PasswordHash:  hash,
		IsActive:      true,
		PaymentDay:    input.PaymentDay,
		AssociationID: association.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if _, err := u.paymentUsecase.EnsureNextInstallment(ctx, user.ID); err != nil {
		return nil, err
	}

	tokens, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role()))
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: user, Tokens: tokens}, nil
}

// Login authenticates a member
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !crypto.CheckPassword(password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domainerrors.ErrUserInactive
	}

	tokens, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role()))
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: user, Tokens: tokens}, nil
}

// AssociationLogin authenticates an association back-office account
func (u *AuthUsecase) AssociationLogin(ctx context.Context, email, password string) (*AuthResponse, error) {
	association, err := u.associationRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !crypto.CheckPassword(password, association.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}
	if !association.IsApproved {
		return nil, domainerrors.ErrAssociationPending
	}

	tokens, err := u.jwtService.GenerateTokenPair(association.ID, association.Email, "association")
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Association: association, Tokens: tokens}, nil
}

// GetMe gets the authenticated member
func (u *AuthUsecase) GetMe(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, userID)
}

func (u *AuthUsecase) resolveAssociation(ctx context.Context, associationID string) (*entities.Association, error) {
	if associationID == "" {
		association, err := u.associationRepo.GetDefault(ctx)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return nil, domainerrors.BadRequest("no default association is configured")
			}
			return nil, err
		}
		return association, nil
	}

	id, err := uuid.Parse(associationID)
	if err != nil {
		return nil, domainerrors.BadRequest("invalid association id")
	}
	association, err := u.associationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.BadRequest("association not found")
		}
		return nil, err
	}
	if !association.IsApproved || !association.IsActive {
		return nil, domainerrors.BadRequest("association is not accepting registrations")
	}
	return association, nil
}
