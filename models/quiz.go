package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	QuizStatusInProgress = "in_progress"
	QuizStatusCompleted  = "completed"
)

// Quiz is one practice attempt. Its question set is fixed at creation; the
// only transition is in_progress -> completed, performed in a single
// transaction that sets Status, Score and CompletedAt together with the
// attempt's TopicPerformance rows.
type Quiz struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	UserID        uint           `json:"user_id" gorm:"index"`
	Status        string         `json:"status" gorm:"not null;default:'in_progress'"`
	Score         int            `json:"score" gorm:"not null;default:0"`
	PassThreshold int            `json:"pass_threshold" gorm:"not null;default:80"`
	CompletedAt   *time.Time     `json:"completed_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	QuizQuestions     []QuizQuestion     `json:"quiz_questions,omitempty" gorm:"foreignKey:QuizID"`
	Outcomes          []QuestionOutcome  `json:"outcomes,omitempty" gorm:"foreignKey:QuizID"`
	TopicPerformances []TopicPerformance `json:"topic_performances,omitempty" gorm:"foreignKey:QuizID"`
}

func (q *Quiz) Completed() bool {
	return q.Status == QuizStatusCompleted
}

func (q *Quiz) Passed() bool {
	return q.Completed() && q.Score >= q.PassThreshold
}

// Questions returns the attempt's question set in position order. Callers
// rely on the join rows being preloaded ordered by position.
func (q *Quiz) Questions() []Question {
	questions := make([]Question, 0, len(q.QuizQuestions))
	for _, qq := range q.QuizQuestions {
		questions = append(questions, qq.Question)
	}
	return questions
}
