package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	ProfileImage        string    `gorm:"default:''"`
	Name                string    `gorm:"default:''"`
	Email               string    `gorm:"unique;not null"`
	Role                string    `gorm:"default:'USER'"` // USER, ADMIN
	Password            string    `gorm:"not null"`
	Bio                 string    `gorm:"type:text"`
	LastLogin           time.Time `gorm:"default:NULL"`
	FailedLoginAttempts int       `gorm:"default:0"`
	LastFailedLogin     *time.Time `json:"last_failed_login"`
	IsBlocked           bool       `gorm:"default:false"`
	IsDeleted           bool       `gorm:"default:false"`
}
