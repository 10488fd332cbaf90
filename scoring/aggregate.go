package scoring

import (
	"math"

	"certquiz/models"

	"go.uber.org/zap"
)

// QuestionResult pairs one quiz question with its recorded outcome, when one
// exists. Unanswered questions carry a nil Outcome and still count toward
// their topic's total.
type QuestionResult struct {
	Question *models.Question
	Outcome  *models.QuestionOutcome
}

// AggregateOptions controls the grouping shape of the topic breakdown.
type AggregateOptions struct {
	// GroupByCanonical merges raw labels that share a canonical topic into a
	// single row. Off by default: historical consumers read one row per raw
	// label, each stamped with its canonical topic, and sum buckets
	// themselves when they want merged totals.
	GroupByCanonical bool
}

// TopicStat is one aggregated topic row for a quiz attempt.
type TopicStat struct {
	Topic      CanonicalTopic `json:"topic"`
	Correct    int            `json:"correct"`
	Total      int            `json:"total"`
	Percentage int            `json:"percentage"`
}

// Aggregate folds per-question correctness into per-topic correct/total/
// percentage rows. Every question increments its topic's total whether or
// not it was answered, so the sum of Total across rows equals the question
// count (minus any question skipped for a missing topic label, which is
// logged and tolerated).
func (m *TopicMapper) Aggregate(results []QuestionResult, opts AggregateOptions) []TopicStat {
	type bucket struct {
		topic   CanonicalTopic
		correct int
		total   int
	}
	buckets := make(map[string]*bucket)
	order := make([]string, 0, len(results))

	for _, res := range results {
		if res.Question == nil {
			continue
		}
		label := res.Question.Topic
		if label == "" {
			m.log.Warn("question has no topic label, skipping in aggregation",
				zap.Uint("question_id", res.Question.ID))
			continue
		}

		key := label
		if opts.GroupByCanonical {
			key = string(m.MapTopic(label))
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{topic: m.MapTopic(label)}
			buckets[key] = b
			order = append(order, key)
		}

		b.total++
		if res.Outcome != nil && res.Outcome.IsCorrect {
			b.correct++
		}
	}

	stats := make([]TopicStat, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		stats = append(stats, TopicStat{
			Topic:      b.topic,
			Correct:    b.correct,
			Total:      b.total,
			Percentage: percentage(b.correct, b.total),
		})
	}
	return stats
}

func percentage(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
