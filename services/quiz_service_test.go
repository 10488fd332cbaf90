package services

import (
	"math/rand"
	"testing"

	"certquiz/models"
	"certquiz/scoring"
)

func bankOf(topics map[string]int) []models.Question {
	var bank []models.Question
	id := uint(1)
	for topic, n := range topics {
		for i := 0; i < n; i++ {
			bank = append(bank, models.Question{ID: id, Topic: topic})
			id++
		}
	}
	return bank
}

func TestSelectBalanced_SpreadsAcrossTopics(t *testing.T) {
	mapper := scoring.NewTopicMapper(nil, scoring.TopicManagement, nil)
	bank := bankOf(map[string]int{
		"Architecture":    10,
		"Transformations": 10,
		"Access Control":  10,
	})

	selected := selectBalanced(bank, 9, mapper, rand.New(rand.NewSource(1)))
	if len(selected) != 9 {
		t.Fatalf("selected %d questions, want 9", len(selected))
	}

	perTopic := map[scoring.CanonicalTopic]int{}
	for _, question := range selected {
		perTopic[mapper.MapTopic(question.Topic)]++
	}
	for topic, n := range perTopic {
		if n != 3 {
			t.Fatalf("topic %s drew %d questions, want 3 each: %v", topic, n, perTopic)
		}
	}
}

func TestSelectBalanced_NoDuplicates(t *testing.T) {
	mapper := scoring.NewTopicMapper(nil, scoring.TopicManagement, nil)
	bank := bankOf(map[string]int{"Architecture": 5, "Upload": 5})

	selected := selectBalanced(bank, 10, mapper, rand.New(rand.NewSource(7)))
	seen := map[uint]bool{}
	for _, question := range selected {
		if seen[question.ID] {
			t.Fatalf("question %d selected twice", question.ID)
		}
		seen[question.ID] = true
	}
	if len(selected) != 10 {
		t.Fatalf("selected %d, want 10", len(selected))
	}
}

func TestSelectBalanced_BankSmallerThanCount(t *testing.T) {
	mapper := scoring.NewTopicMapper(nil, scoring.TopicManagement, nil)
	bank := bankOf(map[string]int{"Architecture": 3})

	selected := selectBalanced(bank, 10, mapper, rand.New(rand.NewSource(3)))
	if len(selected) != 3 {
		t.Fatalf("selected %d, want the whole bank of 3", len(selected))
	}
}

func TestSelectBalanced_Degenerate(t *testing.T) {
	mapper := scoring.NewTopicMapper(nil, scoring.TopicManagement, nil)

	if got := selectBalanced(nil, 5, mapper, nil); got != nil {
		t.Fatalf("empty bank should select nothing, got %v", got)
	}
	if got := selectBalanced(bankOf(map[string]int{"Architecture": 2}), 0, mapper, nil); got != nil {
		t.Fatalf("count 0 should select nothing, got %v", got)
	}
}
