package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"certquiz/models"
	"certquiz/monitoring"
	"certquiz/scoring"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuizCompleted    = errors.New("quiz already completed")
	ErrQuizNotCompleted = errors.New("quiz not completed yet")
)

// AttemptService orchestrates answer submission and quiz completion:
// normalize, evaluate, persist per-question outcomes, then on completion
// compute the overall score and topic breakdown and flip the quiz to
// completed in one transactional store write.
type AttemptService struct {
	store    QuizStore
	redis    *redis.Client
	mapper   *scoring.TopicMapper
	log      *zap.Logger
	cacheTTL time.Duration
}

func NewAttemptService(store QuizStore, redisClient *redis.Client, mapper *scoring.TopicMapper, log *zap.Logger, cacheTTL time.Duration) *AttemptService {
	if log == nil {
		log = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 2 * time.Hour
	}
	return &AttemptService{
		store:    store,
		redis:    redisClient,
		mapper:   mapper,
		log:      log,
		cacheTTL: cacheTTL,
	}
}

type SubmitAnswersRequest struct {
	QuizID     uint            `json:"quiz_id" binding:"required"`
	UserID     uint            `json:"user_id"`
	Answers    []AnswerPayload `json:"answers" binding:"required"`
	IsComplete bool            `json:"is_complete"`
}

// AnswerPayload carries one question's selections. Question IDs and answer
// tokens travel as strings: tokens are either option IDs or 1-based option
// positions depending on the client generation that produced them.
type AnswerPayload struct {
	QuestionID string   `json:"question_id" binding:"required"`
	Answer     []string `json:"answer"`
}

type SubmitResult struct {
	Processed int  `json:"processed"`
	Correct   int  `json:"correct"`
	Score     *int `json:"score"`
}

// SubmitAnswers records a batch of answers against an in-progress quiz and,
// when requested, completes it. A single outcome write failure is logged and
// skipped so the rest of the batch still lands; only the completion write
// itself is fatal.
func (s *AttemptService) SubmitAnswers(ctx context.Context, req *SubmitAnswersRequest) (*SubmitResult, error) {
	quiz, err := s.store.GetQuizByID(ctx, req.QuizID)
	if err != nil {
		return nil, fmt.Errorf("load quiz %d: %w", req.QuizID, err)
	}
	if quiz == nil {
		return nil, ErrQuizNotFound
	}
	if quiz.Completed() {
		return nil, ErrQuizCompleted
	}

	questions := quiz.Questions()
	byID := make(map[string]*models.Question, len(questions))
	for i := range questions {
		byID[strconv.FormatUint(uint64(questions[i].ID), 10)] = &questions[i]
	}

	raw := make([]scoring.SubmittedAnswer, 0, len(req.Answers))
	for _, ans := range req.Answers {
		raw = append(raw, scoring.SubmittedAnswer{QuestionID: ans.QuestionID, Tokens: ans.Answer})
	}

	// Outcomes persisted by earlier submissions seed the tally so a final
	// is_complete call scores the whole attempt, not just its own batch.
	outcomes := make(map[uint]*models.QuestionOutcome, len(quiz.Outcomes))
	for i := range quiz.Outcomes {
		outcomes[quiz.Outcomes[i].QuestionID] = &quiz.Outcomes[i]
	}

	result := &SubmitResult{}
	for _, ans := range scoring.Normalize(raw) {
		question, ok := byID[ans.QuestionID]
		if !ok {
			s.log.Warn("answer references a question outside this quiz",
				zap.Uint("quiz_id", quiz.ID),
				zap.String("question_id", ans.QuestionID))
			continue
		}

		isCorrect := scoring.Evaluate(question, ans.Tokens)
		var optionID *uint
		if len(ans.Tokens) > 0 {
			optionID = scoring.ResolveOption(question, ans.Tokens[0])
		}

		if err := s.store.UpsertQuestionOutcome(ctx, quiz.ID, question.ID, optionID, isCorrect); err != nil {
			monitoring.OutcomeWriteFailures.Inc()
			s.log.Error("failed to record question outcome, skipping",
				zap.Uint("quiz_id", quiz.ID),
				zap.Uint("question_id", question.ID),
				zap.Error(err))
			continue
		}

		outcomes[question.ID] = &models.QuestionOutcome{
			QuizID:     quiz.ID,
			QuestionID: question.ID,
			OptionID:   optionID,
			IsCorrect:  isCorrect,
		}
		result.Processed++
		if isCorrect {
			result.Correct++
		}
	}

	if req.IsComplete {
		score, rows := s.finalize(questions, outcomes)
		if err := s.store.CompleteQuiz(ctx, quiz.ID, score, rows); err != nil {
			return nil, fmt.Errorf("complete quiz %d: %w", quiz.ID, err)
		}
		result.Score = &score
		s.log.Info("quiz completed",
			zap.Uint("quiz_id", quiz.ID),
			zap.Int("score", score),
			zap.Int("questions", len(questions)))
	}

	// The response reports this batch; the cache tracks the whole attempt.
	cumulative := &SubmitResult{Score: result.Score}
	for _, outcome := range outcomes {
		cumulative.Processed++
		if outcome.IsCorrect {
			cumulative.Correct++
		}
	}
	s.storeAttemptState(ctx, quiz.ID, cumulative)
	return result, nil
}

func (s *AttemptService) finalize(questions []models.Question, outcomes map[uint]*models.QuestionOutcome) (int, []models.TopicPerformance) {
	correct := 0
	results := make([]scoring.QuestionResult, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		outcome := outcomes[q.ID]
		if outcome != nil && outcome.IsCorrect {
			correct++
		}
		results = append(results, scoring.QuestionResult{Question: q, Outcome: outcome})
	}

	score := 0
	if len(questions) > 0 {
		score = int(math.Round(float64(correct) / float64(len(questions)) * 100))
	}

	stats := s.mapper.Aggregate(results, scoring.AggregateOptions{})
	rows := make([]models.TopicPerformance, 0, len(stats))
	for _, stat := range stats {
		rows = append(rows, models.TopicPerformance{
			Topic:      string(stat.Topic),
			Correct:    stat.Correct,
			Total:      stat.Total,
			Percentage: stat.Percentage,
		})
	}
	return score, rows
}

// QuizResults is the read model for a finished attempt.
type QuizResults struct {
	QuizID            uint                      `json:"quiz_id"`
	Score             int                       `json:"score"`
	PassThreshold     int                       `json:"pass_threshold"`
	Passed            bool                      `json:"passed"`
	CompletedAt       *time.Time                `json:"completed_at"`
	Outcomes          []models.QuestionOutcome  `json:"outcomes"`
	TopicPerformances []models.TopicPerformance `json:"topic_performances"`
}

func (s *AttemptService) GetResults(ctx context.Context, quizID uint) (*QuizResults, error) {
	quiz, err := s.store.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("load quiz %d: %w", quizID, err)
	}
	if quiz == nil {
		return nil, ErrQuizNotFound
	}
	if !quiz.Completed() {
		return nil, ErrQuizNotCompleted
	}

	return &QuizResults{
		QuizID:            quiz.ID,
		Score:             quiz.Score,
		PassThreshold:     quiz.PassThreshold,
		Passed:            quiz.Passed(),
		CompletedAt:       quiz.CompletedAt,
		Outcomes:          quiz.Outcomes,
		TopicPerformances: quiz.TopicPerformances,
	}, nil
}

// AttemptProgress is the cached running tally for an attempt, refreshed on
// every submission.
type AttemptProgress struct {
	QuizID    uint      `json:"quiz_id"`
	Processed int       `json:"processed"`
	Correct   int       `json:"correct"`
	Score     *int      `json:"score,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetProgress reads the cached tally, falling back to the store when the
// cache is cold and re-priming it from the persisted outcomes.
func (s *AttemptService) GetProgress(ctx context.Context, quizID uint) (*AttemptProgress, error) {
	if state := s.getAttemptState(ctx, quizID); state != nil {
		return state, nil
	}

	quiz, err := s.store.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("load quiz %d: %w", quizID, err)
	}
	if quiz == nil {
		return nil, ErrQuizNotFound
	}

	result := &SubmitResult{}
	for _, outcome := range quiz.Outcomes {
		result.Processed++
		if outcome.IsCorrect {
			result.Correct++
		}
	}
	if quiz.Completed() {
		score := quiz.Score
		result.Score = &score
	}

	s.storeAttemptState(ctx, quiz.ID, result)
	return &AttemptProgress{
		QuizID:    quiz.ID,
		Processed: result.Processed,
		Correct:   result.Correct,
		Score:     result.Score,
		UpdatedAt: time.Now(),
	}, nil
}

func (s *AttemptService) storeAttemptState(ctx context.Context, quizID uint, result *SubmitResult) {
	if s.redis == nil {
		return
	}
	state := AttemptProgress{
		QuizID:    quizID,
		Processed: result.Processed,
		Correct:   result.Correct,
		Score:     result.Score,
		UpdatedAt: time.Now(),
	}
	data, err := json.Marshal(state)
	if err != nil {
		s.log.Error("failed to marshal attempt state", zap.Uint("quiz_id", quizID), zap.Error(err))
		return
	}
	if err := s.redis.Set(ctx, attemptKey(quizID), data, s.cacheTTL).Err(); err != nil {
		s.log.Warn("failed to cache attempt state", zap.Uint("quiz_id", quizID), zap.Error(err))
	}
}

func (s *AttemptService) getAttemptState(ctx context.Context, quizID uint) *AttemptProgress {
	if s.redis == nil {
		return nil
	}
	data, err := s.redis.Get(ctx, attemptKey(quizID)).Result()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("redis error reading attempt state", zap.Uint("quiz_id", quizID), zap.Error(err))
		}
		return nil
	}
	var state AttemptProgress
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		s.log.Warn("failed to unmarshal attempt state", zap.Uint("quiz_id", quizID), zap.Error(err))
		return nil
	}
	return &state
}

func attemptKey(quizID uint) string {
	return "attempt:" + strconv.FormatUint(uint64(quizID), 10)
}
