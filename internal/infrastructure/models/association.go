package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Association struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CNPJ          string    `gorm:"type:varchar(18);not null;uniqueIndex"`
	CorporateName string    `gorm:"type:varchar(255);not null"`
	TradeName     *string   `gorm:"type:varchar(255)"`
	Email         string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone         *string   `gorm:"type:varchar(30)"`
	Address       *string   `gorm:"type:varchar(255)"`
	City          *string   `gorm:"type:varchar(100)"`
	State         *string   `gorm:"type:varchar(2)"`
	ZipCode       *string   `gorm:"type:varchar(9)"`
	PasswordHash  string    `gorm:"type:varchar(255);not null"`
	IsActive      bool      `gorm:"not null;default:false;index"`
	IsApproved    bool      `gorm:"not null;default:false;index"`
	IsDefault     bool      `gorm:"not null;default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}
