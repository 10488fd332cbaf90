package services

import (
	"context"
	"errors"
	"time"

	"certquiz/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuizStore is the persistence boundary the completion flow runs against.
// GetQuizByID returns nil without error when no quiz exists. CompleteQuiz
// must be transactional: a quiz must never read as completed without its
// score and topic rows, or the other way around.
type QuizStore interface {
	GetQuizByID(ctx context.Context, id uint) (*models.Quiz, error)
	UpsertQuestionOutcome(ctx context.Context, quizID, questionID uint, optionID *uint, isCorrect bool) error
	CompleteQuiz(ctx context.Context, quizID uint, score int, rows []models.TopicPerformance) error
}

type gormQuizStore struct {
	db *gorm.DB
}

func NewQuizStore(db *gorm.DB) QuizStore {
	return &gormQuizStore{db: db}
}

func (s *gormQuizStore) GetQuizByID(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.WithContext(ctx).
		Preload("QuizQuestions", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_questions.position")
		}).
		Preload("QuizQuestions.Question.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.order")
		}).
		Preload("Outcomes").
		Preload("TopicPerformances").
		First(&quiz, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (s *gormQuizStore) UpsertQuestionOutcome(ctx context.Context, quizID, questionID uint, optionID *uint, isCorrect bool) error {
	outcome := models.QuestionOutcome{
		QuizID:     quizID,
		QuestionID: questionID,
		OptionID:   optionID,
		IsCorrect:  isCorrect,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "quiz_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"option_id", "is_correct", "updated_at"}),
	}).Create(&outcome).Error
}

func (s *gormQuizStore) CompleteQuiz(ctx context.Context, quizID uint, score int, rows []models.TopicPerformance) error {
	now := time.Now()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Quiz{}).Where("id = ?", quizID).
			Updates(map[string]interface{}{
				"status":       models.QuizStatusCompleted,
				"score":        score,
				"completed_at": now,
			}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].QuizID = quizID
		}
		return tx.Create(&rows).Error
	})
}
