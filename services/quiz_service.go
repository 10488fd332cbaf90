package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"certquiz/models"
	"certquiz/scoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrQuestionNotFound = errors.New("question not found")

// QuizService owns the question bank and assembles quiz attempts from it.
type QuizService struct {
	db     *gorm.DB
	mapper *scoring.TopicMapper
	log    *zap.Logger
}

func NewQuizService(db *gorm.DB, mapper *scoring.TopicMapper, log *zap.Logger) *QuizService {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuizService{db: db, mapper: mapper, log: log}
}

type CreateQuestionRequest struct {
	Text           string                `json:"text" binding:"required"`
	Topic          string                `json:"topic" binding:"required"`
	Difficulty     string                `json:"difficulty"`
	MultiAnswer    bool                  `json:"multi_answer"`
	CorrectAnswers []string              `json:"correct_answers"`
	Options        []CreateOptionRequest `json:"options" binding:"required,min=2,max=6"`
}

type CreateOptionRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

func (s *QuizService) CreateQuestion(ctx context.Context, req *CreateQuestionRequest) (*models.Question, error) {
	correctCount := 0
	for _, opt := range req.Options {
		if opt.IsCorrect {
			correctCount++
		}
	}
	if correctCount == 0 {
		return nil, errors.New("question must have at least one correct option")
	}
	// Legacy data has multi-answer questions with a single flagged option
	// and vice versa; new writes warn instead of rejecting so imports of
	// historical banks keep working.
	if req.MultiAnswer && correctCount < 2 {
		s.log.Warn("multi-answer question created with fewer than two correct options",
			zap.String("topic", req.Topic))
	}
	if !req.MultiAnswer && correctCount > 1 {
		s.log.Warn("single-answer question created with several correct options",
			zap.String("topic", req.Topic))
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}

	question := models.Question{
		Text:           req.Text,
		Topic:          req.Topic,
		Difficulty:     difficulty,
		MultiAnswer:    req.MultiAnswer,
		CorrectAnswers: req.CorrectAnswers,
	}
	for i, opt := range req.Options {
		question.Options = append(question.Options, models.Option{
			Text:      opt.Text,
			IsCorrect: opt.IsCorrect,
			Order:     i + 1,
		})
	}

	if err := s.db.WithContext(ctx).Create(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *QuizService) GetQuestionByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	err := s.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.order")
		}).
		First(&question, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *QuizService) ListQuestions(ctx context.Context, topic, difficulty string, limit int) ([]models.Question, error) {
	query := s.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.order")
		}).
		Order("created_at DESC")
	if topic != "" {
		query = query.Where("topic = ?", topic)
	}
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var questions []models.Question
	err := query.Find(&questions).Error
	return questions, err
}

func (s *QuizService) UpdateQuestion(ctx context.Context, id uint, req *CreateQuestionRequest) (*models.Question, error) {
	question, err := s.GetQuestionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		question.Text = req.Text
		question.Topic = req.Topic
		if req.Difficulty != "" {
			question.Difficulty = req.Difficulty
		}
		question.MultiAnswer = req.MultiAnswer
		question.CorrectAnswers = req.CorrectAnswers
		if err := tx.Omit("Options").Save(question).Error; err != nil {
			return err
		}

		if err := tx.Where("question_id = ?", question.ID).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		for i, opt := range req.Options {
			option := models.Option{
				QuestionID: question.ID,
				Text:       opt.Text,
				IsCorrect:  opt.IsCorrect,
				Order:      i + 1,
			}
			if err := tx.Create(&option).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetQuestionByID(ctx, id)
}

func (s *QuizService) DeleteQuestion(ctx context.Context, id uint) error {
	if _, err := s.GetQuestionByID(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.Question{}, id).Error
}

type CreateQuizRequest struct {
	UserID        uint   `json:"user_id"`
	Count         int    `json:"count" binding:"required,min=1"`
	Difficulty    string `json:"difficulty"`
	PassThreshold int    `json:"pass_threshold"`
}

// CreateQuiz assembles an attempt by drawing questions from the bank spread
// across canonical topics: one per topic bucket in rotation, random within a
// bucket, until the requested count is reached or the bank runs dry.
func (s *QuizService) CreateQuiz(ctx context.Context, req *CreateQuizRequest, defaultThreshold int) (*models.Quiz, error) {
	bank, err := s.ListQuestions(ctx, "", req.Difficulty, 0)
	if err != nil {
		return nil, err
	}
	selected := selectBalanced(bank, req.Count, s.mapper, nil)
	if len(selected) == 0 {
		return nil, errors.New("question bank is empty for the requested difficulty")
	}

	threshold := req.PassThreshold
	if threshold <= 0 {
		threshold = defaultThreshold
	}

	quiz := models.Quiz{
		UserID:        req.UserID,
		Status:        models.QuizStatusInProgress,
		PassThreshold: threshold,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&quiz).Error; err != nil {
			return err
		}
		for i, question := range selected {
			qq := models.QuizQuestion{
				QuizID:     quiz.ID,
				QuestionID: question.ID,
				Position:   i + 1,
			}
			if err := tx.Create(&qq).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("quiz assembled",
		zap.Uint("quiz_id", quiz.ID),
		zap.Uint("user_id", req.UserID),
		zap.Int("questions", len(selected)))

	return s.GetQuiz(ctx, quiz.ID)
}

func (s *QuizService) GetQuiz(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.WithContext(ctx).
		Preload("QuizQuestions", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_questions.position")
		}).
		Preload("QuizQuestions.Question.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.order")
		}).
		First(&quiz, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (s *QuizService) ListQuizzes(ctx context.Context, userID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&quizzes).Error
	if err != nil {
		return nil, fmt.Errorf("list quizzes for user %d: %w", userID, err)
	}
	return quizzes, nil
}

// selectBalanced draws count questions round-robin over per-canonical-topic
// buckets so no single topic dominates the attempt. Buckets are shuffled
// with rng, which tests pin to a fixed seed; nil means a source seeded from
// global rand.
func selectBalanced(bank []models.Question, count int, mapper *scoring.TopicMapper, rng *rand.Rand) []models.Question {
	if count <= 0 || len(bank) == 0 {
		return nil
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	buckets := make(map[scoring.CanonicalTopic][]models.Question)
	order := make([]scoring.CanonicalTopic, 0)
	for _, question := range bank {
		topic := mapper.MapTopic(question.Topic)
		if _, ok := buckets[topic]; !ok {
			order = append(order, topic)
		}
		buckets[topic] = append(buckets[topic], question)
	}
	for _, topic := range order {
		bucket := buckets[topic]
		rng.Shuffle(len(bucket), func(i, j int) {
			bucket[i], bucket[j] = bucket[j], bucket[i]
		})
	}

	selected := make([]models.Question, 0, count)
	for len(selected) < count {
		drew := false
		for _, topic := range order {
			if len(selected) == count {
				break
			}
			bucket := buckets[topic]
			if len(bucket) == 0 {
				continue
			}
			selected = append(selected, bucket[0])
			buckets[topic] = bucket[1:]
			drew = true
		}
		if !drew {
			break
		}
	}
	return selected
}
