package models

import (
	"time"

	"gorm.io/gorm"
)

// RefreshToken stores one rotating refresh token per issued session.
// A token is revoked the moment it is exchanged for a new pair.
type RefreshToken struct {
	gorm.Model
	UserID    uint      `gorm:"index;not null"`
	Token     string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	Revoked   bool      `gorm:"default:false"`
	IsDeleted bool      `gorm:"default:false"`

	User User `gorm:"foreignKey:UserID"`
}
