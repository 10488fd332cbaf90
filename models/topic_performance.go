package models

import (
	"time"

	"gorm.io/gorm"
)

// TopicPerformance is one per-topic correct/total/percentage row written at
// quiz completion. Rows are grouped by the raw topic label the questions
// carried, so two raw labels mapping onto the same canonical topic produce
// two rows with the same Topic value.
type TopicPerformance struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	QuizID     uint           `json:"quiz_id" gorm:"not null;index"`
	Topic      string         `json:"topic" gorm:"not null"`
	Correct    int            `json:"correct" gorm:"not null"`
	Total      int            `json:"total" gorm:"not null"`
	Percentage int            `json:"percentage" gorm:"not null"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}
