package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// UserRole represents the role carried in auth tokens
type UserRole string

const (
	UserRoleMember UserRole = "member"
	UserRoleAdmin  UserRole = "admin"
)

// User represents a cooperative member (cooperado)
type User struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	Phone         null.String `json:"phone,omitempty"`
	CPF           null.String `json:"cpf,omitempty"`
	PasswordHash  string      `json:"-"`
	IsAdmin       bool        `json:"isAdmin"`
	IsActive      bool        `json:"isActive"`
	Fake          bool        `json:"-"`
	PaymentDay    int         `json:"paymentDay"`
	AssociationID uuid.UUID   `json:"associationId"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
	DeletedAt     *time.Time  `json:"-"`

	Association *Association `json:"association,omitempty"`
	Profile     *UserProfile `json:"profile,omitempty"`
}

// Role returns the token role for the user
func (u *User) Role() UserRole {
	if u.IsAdmin {
		return UserRoleAdmin
	}
	return UserRoleMember
}

// UserProfile holds extended member data edited from the dashboard
type UserProfile struct {
	ID            uuid.UUID    `json:"id"`
	UserID        uuid.UUID    `json:"userId"`
	Address       null.String  `json:"address,omitempty"`
	City          null.String  `json:"city,omitempty"`
	State         null.String  `json:"state,omitempty"`
	ZipCode       null.String  `json:"zipCode,omitempty"`
	BirthDate     null.Time    `json:"birthDate,omitempty"`
	MaritalStatus null.String  `json:"maritalStatus,omitempty"`
	Profession    null.String  `json:"profession,omitempty"`
	MonthlyIncome null.Float64 `json:"monthlyIncome,omitempty"`
	Notes         null.String  `json:"notes,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// RegisterUserInput represents input for member registration
type RegisterUserInput struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=8"`
	Phone         string `json:"phone,omitempty"`
	CPF           string `json:"cpf,omitempty"`
	PaymentDay    int    `json:"paymentDay" binding:"required"`
	AssociationID string `json:"associationId,omitempty"`
}

// UpdateUserInput represents input for admin user edits
type UpdateUserInput struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	PaymentDay *int    `json:"paymentDay,omitempty"`
}

// UserFilter represents the fixed set of optional list filters
type UserFilter struct {
	Query         string
	AssociationID *uuid.UUID
	OnlyActive    bool
	Page          int
	Limit         int
}
