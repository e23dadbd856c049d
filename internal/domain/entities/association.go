package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Association represents a tenant cooperative-partner entity
type Association struct {
	ID            uuid.UUID   `json:"id"`
	CNPJ          string      `json:"cnpj"`
	CorporateName string      `json:"corporateName"`
	TradeName     null.String `json:"tradeName,omitempty"`
	Email         string      `json:"email"`
	Phone         null.String `json:"phone,omitempty"`
	Address       null.String `json:"address,omitempty"`
	City          null.String `json:"city,omitempty"`
	State         null.String `json:"state,omitempty"`
	ZipCode       null.String `json:"zipCode,omitempty"`
	PasswordHash  string      `json:"-"`
	IsActive      bool        `json:"isActive"`
	IsApproved    bool        `json:"isApproved"`
	IsDefault     bool        `json:"isDefault"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
	DeletedAt     *time.Time  `json:"-"`
}

// RegisterAssociationInput represents input for association self-registration
type RegisterAssociationInput struct {
	CNPJ          string `json:"cnpj" binding:"required"`
	CorporateName string `json:"corporateName" binding:"required"`
	TradeName     string `json:"tradeName,omitempty"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=8"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	ZipCode       string `json:"zipCode,omitempty"`
}

// UpdateAssociationInput represents input for profile/branding edits
type UpdateAssociationInput struct {
	CorporateName *string `json:"corporateName,omitempty"`
	TradeName     *string `json:"tradeName,omitempty"`
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Address       *string `json:"address,omitempty"`
	City          *string `json:"city,omitempty"`
	State         *string `json:"state,omitempty"`
	ZipCode       *string `json:"zipCode,omitempty"`
}

// AssociationMetrics summarizes one association's membership
type AssociationMetrics struct {
	AssociationID uuid.UUID `json:"associationId"`
	TotalUsers    int64     `json:"totalUsers"`
	ActiveUsers   int64     `json:"activeUsers"`
	Adimplentes   int64     `json:"adimplentes"`
	Inadimplentes int64     `json:"inadimplentes"`
}

// DeleteAssociationResult reports which path the delete took
type DeleteAssociationResult string

const (
	AssociationDeleted     DeleteAssociationResult = "deleted"
	AssociationDeactivated DeleteAssociationResult = "deactivated"
)
