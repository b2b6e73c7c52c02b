package course

import (
	"time"

	"gorm.io/gorm"
)

// Portfolio is a student project submitted for review
type Portfolio struct {
	gorm.Model
	UserID      uint   `json:"user_id" gorm:"index;not null"`
	CourseID    *uint  `json:"course_id" gorm:"index"` // optional link to the course the project belongs to
	Title       string `json:"title"`
	Description string `json:"description" gorm:"type:text"`
	RepoURL     string `json:"repo_url"`
	ImageURL    string `json:"image_url"`
	Status      string `json:"status" gorm:"default:'PENDING'"` // PENDING, APPROVED, REJECTED
	IsDeleted   bool   `gorm:"default:false"`
}

// PortfolioReview records an admin's decision on a portfolio submission
type PortfolioReview struct {
	gorm.Model
	PortfolioID uint      `json:"portfolio_id" gorm:"index;not null"`
	ReviewerID  uint      `json:"reviewer_id" gorm:"index;not null"`
	Decision    string    `json:"decision"` // APPROVED, REJECTED
	Feedback    string    `json:"feedback" gorm:"type:text"`
	ReviewedAt  time.Time `json:"reviewed_at"`
	IsDeleted   bool      `gorm:"default:false"`
}
