package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ChapterElement is one content block inside a chapter. TEXT, IMAGE and
// VIDEO elements carry their payload in Content; QUIZ elements reference
// a QuizForm instead.
type ChapterElement struct {
	gorm.Model
	ChapterID   uint           `json:"chapter_id" gorm:"index;not null"`
	ElementType string         `json:"element_type" gorm:"default:'TEXT'"` // TEXT, IMAGE, VIDEO, QUIZ
	Content     datatypes.JSON `json:"content"`
	QuizFormID  *uint          `json:"quiz_form_id" gorm:"index"` // set only for QUIZ elements
	OrderIndex  int            `json:"order_index" gorm:"default:0"`
	IsDeleted   bool           `gorm:"default:false"`
}
