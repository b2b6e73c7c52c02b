package course

import (
	"time"

	"gorm.io/gorm"
)

// Badge is an achievement granted when a user completes the owning course
type Badge struct {
	gorm.Model
	Name        string `json:"name"`
	Description string `json:"description"`
	IconURL     string `json:"icon_url"`
	IsDeleted   bool   `gorm:"default:false"`
}

// UserBadge associates a badge with a user. The composite unique index is
// the hard backstop against double-award: racing inserts for the same
// (user, badge) pair collapse into one row.
type UserBadge struct {
	gorm.Model
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_user_badge;not null"`
	BadgeID   uint      `json:"badge_id" gorm:"uniqueIndex:idx_user_badge;not null"`
	AwardCode string    `json:"award_code"`
	AwardedAt time.Time `json:"awarded_at"`
	IsDeleted bool      `gorm:"default:false"`

	Badge Badge `gorm:"foreignKey:BadgeID"`
}
