package services

import (
	"reflect"
	"testing"
)

func TestParseToolArguments(t *testing.T) {
	raw := []byte(`{"questions":[{"text":"Which layer serves assets?","options":["CDN","Origin","Cache","Edge"],"correct_options":[0],"multi_answer":false,"explanation":"Assets are served from the CDN."}]}`)

	questions, err := parseToolArguments(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("parsed %d questions, want 1", len(questions))
	}
	if questions[0].Text != "Which layer serves assets?" || len(questions[0].Options) != 4 {
		t.Fatalf("parsed question = %+v", questions[0])
	}
}

func TestParseToolArguments_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "broken json", raw: `{"questions":`},
		{name: "empty list", raw: `{"questions":[]}`},
		{name: "missing field", raw: `{}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseToolArguments([]byte(tc.raw)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestToCreateRequest(t *testing.T) {
	gen := generatedQuestion{
		Text:           "Select all upload presets that apply.",
		Options:        []string{"signed", "unsigned", "inline", "deferred"},
		CorrectOptions: []int{0, 1},
		MultiAnswer:    true,
	}

	req, err := toCreateRequest(gen, "Upload and Migrate Assets", "hard")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !req.MultiAnswer {
		t.Fatal("multi_answer flag lost")
	}
	if req.Topic != "Upload and Migrate Assets" || req.Difficulty != "hard" {
		t.Fatalf("metadata = %q/%q", req.Topic, req.Difficulty)
	}
	if !req.Options[0].IsCorrect || !req.Options[1].IsCorrect || req.Options[2].IsCorrect {
		t.Fatalf("correctness flags wrong: %+v", req.Options)
	}
	if !reflect.DeepEqual(req.CorrectAnswers, []string{"signed", "unsigned"}) {
		t.Fatalf("correct answers = %v", req.CorrectAnswers)
	}
}

func TestToCreateRequest_SeveralCorrectImpliesMulti(t *testing.T) {
	gen := generatedQuestion{
		Text:           "q",
		Options:        []string{"a", "b", "c"},
		CorrectOptions: []int{0, 2},
	}

	req, err := toCreateRequest(gen, "Architecture", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !req.MultiAnswer {
		t.Fatal("two correct options must imply multi_answer")
	}
}

func TestToCreateRequest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		gen  generatedQuestion
	}{
		{name: "no text", gen: generatedQuestion{Options: []string{"a", "b"}, CorrectOptions: []int{0}}},
		{name: "too few options", gen: generatedQuestion{Text: "q", Options: []string{"a"}, CorrectOptions: []int{0}}},
		{name: "no correct option", gen: generatedQuestion{Text: "q", Options: []string{"a", "b"}}},
		{name: "index out of range", gen: generatedQuestion{Text: "q", Options: []string{"a", "b"}, CorrectOptions: []int{5}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := toCreateRequest(tc.gen, "Architecture", ""); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
