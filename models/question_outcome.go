package models

import (
	"time"

	"gorm.io/gorm"
)

// QuestionOutcome is the durable correctness record for one question within
// one quiz attempt. At most one row exists per (quiz, question); resubmitting
// before completion overwrites it. OptionID is the option recorded as the
// user's answer and is nullable: legacy clients send tokens that may not
// resolve to a stored option.
type QuestionOutcome struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	QuizID     uint           `json:"quiz_id" gorm:"not null;uniqueIndex:idx_outcome_quiz_question"`
	QuestionID uint           `json:"question_id" gorm:"not null;uniqueIndex:idx_outcome_quiz_question"`
	OptionID   *uint          `json:"option_id"`
	IsCorrect  bool           `json:"is_correct" gorm:"not null"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Question Question `json:"question,omitempty"`
}
