package models

import (
	"time"

	"gorm.io/gorm"
)

// QuizQuestion pins one bank question into a quiz attempt at a fixed
// position. The 1-based position doubles as a valid answer token encoding
// for the question's options.
type QuizQuestion struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	QuizID     uint           `json:"quiz_id" gorm:"not null;index"`
	QuestionID uint           `json:"question_id" gorm:"not null"`
	Position   int            `json:"position" gorm:"not null"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Question Question `json:"question,omitempty"`
}
