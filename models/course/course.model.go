package course

import "gorm.io/gorm"

// Course is the top of the content tree: Course -> Lesson -> Chapter -> ChapterElement
type Course struct {
	gorm.Model
	Title        string `json:"title"`
	Description  string `json:"description" gorm:"type:text"`
	Difficulty   string `json:"difficulty" gorm:"default:'BEGINNER'"` // BEGINNER, INTERMEDIATE, ADVANCED
	ThumbnailURL string `json:"thumbnail_url"`
	BadgeID      *uint  `json:"badge_id" gorm:"index"` // awarded on full course completion
	IsPublished  bool   `json:"is_published" gorm:"default:false"`
	IsDeleted    bool   `gorm:"default:false"`
}

// Lesson represents a lesson within a course
type Lesson struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index" gorm:"default:0"` // Lesson order in course
	IsDeleted   bool   `gorm:"default:false"`
}

// Chapter represents a chapter within a lesson
type Chapter struct {
	gorm.Model
	LessonID   uint   `json:"lesson_id" gorm:"index;not null"`
	Title      string `json:"title"`
	OrderIndex int    `json:"order_index" gorm:"default:0"` // Chapter order in lesson
	IsDeleted  bool   `gorm:"default:false"`
}
