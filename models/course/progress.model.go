package course

import (
	"time"

	"gorm.io/gorm"
)

// UserChapterProgress tracks per-user chapter completion. Created on first
// completion; re-completing is a no-op and never touches CompletedAt.
type UserChapterProgress struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"uniqueIndex:idx_user_chapter;not null"`
	ChapterID   uint       `json:"chapter_id" gorm:"uniqueIndex:idx_user_chapter;not null"`
	Completed   bool       `json:"completed" gorm:"default:false"`
	CompletedAt *time.Time `json:"completed_at"`
	IsDeleted   bool       `gorm:"default:false"`
}

// UserLessonProgress is derived state: written only by the completion
// cascade when every chapter of the lesson is complete.
type UserLessonProgress struct {
	gorm.Model
	UserID    uint `json:"user_id" gorm:"uniqueIndex:idx_user_lesson;not null"`
	LessonID  uint `json:"lesson_id" gorm:"uniqueIndex:idx_user_lesson;not null"`
	Completed bool `json:"completed" gorm:"default:false"`
	IsDeleted bool `gorm:"default:false"`
}

// UserCourseProgress is derived state: written only by the completion
// cascade when every lesson of the course is complete.
type UserCourseProgress struct {
	gorm.Model
	UserID    uint `json:"user_id" gorm:"uniqueIndex:idx_user_course;not null"`
	CourseID  uint `json:"course_id" gorm:"uniqueIndex:idx_user_course;not null"`
	Completed bool `json:"completed" gorm:"default:false"`
	IsDeleted bool `gorm:"default:false"`
}
