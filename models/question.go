package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Question is one unit of assessment in the question bank. MultiAnswer marks
// "select all that apply" questions; CorrectAnswers carries the canonical
// correct answer texts for those. Historical rows exist where the two
// disagree (flag unset but several answers listed, or no correct option at
// all); scoring tolerates them rather than rejecting the question.
type Question struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Text           string         `json:"text" gorm:"not null"`
	Topic          string         `json:"topic" gorm:"not null;index"`
	Difficulty     string         `json:"difficulty" gorm:"not null;default:'medium'"`
	MultiAnswer    bool           `json:"multi_answer" gorm:"not null;default:false"`
	CorrectAnswers []string       `json:"correct_answers,omitempty" gorm:"serializer:json"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Options []Option `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}
