package scoring

import (
	"testing"

	"certquiz/models"
)

func singleAnswerQuestion() *models.Question {
	return &models.Question{
		ID:   11,
		Text: "Which environment variable configures the product?",
		Options: []models.Option{
			{ID: 101, Text: "A"},
			{ID: 102, Text: "B", IsCorrect: true},
			{ID: 103, Text: "C"},
			{ID: 104, Text: "D"},
		},
	}
}

func multiAnswerQuestion() *models.Question {
	return &models.Question{
		ID:          12,
		Text:        "Select all transformation parameters that apply.",
		MultiAnswer: true,
		CorrectAnswers: []string{
			"crop", "gravity",
		},
		Options: []models.Option{
			{ID: 201, Text: "crop", IsCorrect: true},
			{ID: 202, Text: "format"},
			{ID: 203, Text: "gravity", IsCorrect: true},
			{ID: 204, Text: "echo"},
		},
	}
}

func TestEvaluate_SingleAnswer(t *testing.T) {
	q := singleAnswerQuestion()

	tests := []struct {
		name   string
		tokens []string
		want   bool
	}{
		{name: "by option id", tokens: []string{"102"}, want: true},
		{name: "by 1-based index", tokens: []string{"2"}, want: true},
		{name: "by option text", tokens: []string{"B"}, want: true},
		{name: "wrong index", tokens: []string{"1"}, want: false},
		{name: "wrong id", tokens: []string{"103"}, want: false},
		{name: "two tokens on single answer", tokens: []string{"102", "103"}, want: false},
		{name: "empty", tokens: nil, want: false},
		{name: "whitespace token", tokens: []string{"  "}, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Evaluate(q, tc.tokens); got != tc.want {
				t.Fatalf("Evaluate(%v) = %v, want %v", tc.tokens, got, tc.want)
			}
		})
	}
}

func TestEvaluate_MultiAnswerExactSet(t *testing.T) {
	q := multiAnswerQuestion()

	tests := []struct {
		name   string
		tokens []string
		want   bool
	}{
		{name: "both by id", tokens: []string{"201", "203"}, want: true},
		{name: "order irrelevant", tokens: []string{"203", "201"}, want: true},
		{name: "mixed id and index", tokens: []string{"1", "203"}, want: true},
		{name: "both by index", tokens: []string{"1", "3"}, want: true},
		{name: "missing one", tokens: []string{"201"}, want: false},
		{name: "extra wrong option", tokens: []string{"201", "202", "203"}, want: false},
		{name: "stray token fails count", tokens: []string{"201", "203", "999"}, want: false},
		{name: "duplicates collapse before matching", tokens: []string{"201", "201", "203"}, want: true},
		{name: "empty", tokens: []string{}, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Evaluate(q, tc.tokens); got != tc.want {
				t.Fatalf("Evaluate(%v) = %v, want %v", tc.tokens, got, tc.want)
			}
		})
	}
}

func TestEvaluate_LegacyAnswerListWithoutFlag(t *testing.T) {
	// Flag unset but several canonical answers recorded, and no option rows
	// flagged correct: matching runs against the answer list without exact
	// count enforcement.
	q := &models.Question{
		ID:             13,
		Text:           "Which regions host the service?",
		CorrectAnswers: []string{"eu-west", "us-east"},
		Options: []models.Option{
			{ID: 301, Text: "eu-west"},
			{ID: 302, Text: "us-east"},
			{ID: 303, Text: "ap-south"},
		},
	}

	tests := []struct {
		name   string
		tokens []string
		want   bool
	}{
		{name: "single token in answer list", tokens: []string{"eu-west"}, want: true},
		{name: "all answers", tokens: []string{"eu-west", "us-east"}, want: true},
		{name: "token outside answer list", tokens: []string{"ap-south"}, want: false},
		{name: "mixed valid and invalid", tokens: []string{"eu-west", "ap-south"}, want: false},
		{name: "duplicate token trims within answer count", tokens: []string{"eu-west", "us-east", "eu-west "}, want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Evaluate(q, tc.tokens); got != tc.want {
				t.Fatalf("Evaluate(%v) = %v, want %v", tc.tokens, got, tc.want)
			}
		})
	}
}

func TestEvaluate_SelectUpToFallback(t *testing.T) {
	q := &models.Question{
		ID:   14,
		Text: "Select up to 2 add-ons bundled by default.",
		Options: []models.Option{
			{ID: 401, Text: "W"},
			{ID: 402, Text: "X"},
			{ID: 403, Text: "Y"},
		},
	}

	tests := []struct {
		name   string
		tokens []string
		want   bool
	}{
		{name: "one selection", tokens: []string{"401"}, want: true},
		{name: "two selections", tokens: []string{"401", "403"}, want: true},
		{name: "over the limit", tokens: []string{"401", "402", "403"}, want: false},
		{name: "none", tokens: nil, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Evaluate(q, tc.tokens); got != tc.want {
				t.Fatalf("Evaluate(%v) = %v, want %v", tc.tokens, got, tc.want)
			}
		})
	}
}

func TestEvaluate_KeylessAcceptsAnySelection(t *testing.T) {
	q := &models.Question{
		ID:   15,
		Text: "Describe the widget configuration.",
		Options: []models.Option{
			{ID: 501, Text: "P"},
			{ID: 502, Text: "Q"},
		},
	}

	if Evaluate(q, nil) {
		t.Fatal("empty selection on keyless question must be incorrect")
	}
	if !Evaluate(q, []string{"501"}) {
		t.Fatal("non-empty selection on keyless question must be accepted")
	}
	if !Evaluate(q, []string{"501", "502"}) {
		t.Fatal("multiple selections on keyless question must be accepted")
	}
}

func TestEvaluate_NilQuestion(t *testing.T) {
	if Evaluate(nil, []string{"1"}) {
		t.Fatal("nil question must score false")
	}
}

func TestResolveOption(t *testing.T) {
	q := singleAnswerQuestion()

	tests := []struct {
		name  string
		token string
		want  *uint
	}{
		{name: "by id", token: "103", want: uintPtr(103)},
		{name: "by index", token: "2", want: uintPtr(102)},
		{name: "by text", token: "D", want: uintPtr(104)},
		{name: "unresolvable", token: "999", want: nil},
		{name: "blank", token: " ", want: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveOption(q, tc.token)
			if (got == nil) != (tc.want == nil) {
				t.Fatalf("ResolveOption(%q) = %v, want %v", tc.token, got, tc.want)
			}
			if got != nil && *got != *tc.want {
				t.Fatalf("ResolveOption(%q) = %d, want %d", tc.token, *got, *tc.want)
			}
		})
	}
}

func uintPtr(v uint) *uint {
	return &v
}
