package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"type:varchar(255);not null"`
	Email         string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone         *string   `gorm:"type:varchar(30)"`
	CPF           *string   `gorm:"type:varchar(14);index"`
	PasswordHash  string    `gorm:"type:varchar(255);not null"`
	IsAdmin       bool      `gorm:"not null;default:false"`
	// No default tag: gorm would omit an explicit false on insert and the
	// column default would silently reactivate the user.
	IsActive      bool      `gorm:"not null;index"`
	Fake          bool      `gorm:"not null;default:false;index"`
	PaymentDay    int       `gorm:"not null"`
	AssociationID uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`

	Association Association `gorm:"foreignKey:AssociationID"`
}

type UserProfile struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Address       *string   `gorm:"type:varchar(255)"`
	City          *string   `gorm:"type:varchar(100)"`
	State         *string   `gorm:"type:varchar(2)"`
	ZipCode       *string   `gorm:"type:varchar(9)"`
	BirthDate     *time.Time
	MaritalStatus *string `gorm:"type:varchar(30)"`
	Profession    *string `gorm:"type:varchar(100)"`
	MonthlyIncome *float64 `gorm:"type:decimal(10,2)"`
	Notes         *string `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
