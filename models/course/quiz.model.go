package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizForm groups the questions of one quiz
type QuizForm struct {
	gorm.Model
	Title     string `json:"title"`
	IsDeleted bool   `gorm:"default:false"`
}

// QuizQuestion is a single four-option question. Options holds a JSON
// array of exactly four strings; CorrectAnswer is the index into it (0-3).
type QuizQuestion struct {
	gorm.Model
	QuizFormID    uint           `json:"quiz_form_id" gorm:"index;not null"`
	Question      string         `json:"question" gorm:"type:text"`
	Options       datatypes.JSON `json:"options"`
	CorrectAnswer int            `json:"correct_answer" gorm:"default:0"`
	OrderIndex    int            `json:"order_index" gorm:"default:0"`
	IsDeleted     bool           `gorm:"default:false"`
}
