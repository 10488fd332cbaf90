package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"certquiz/models"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

var ErrGeneratorDisabled = errors.New("question generation is not configured")

// GeneratorService produces multiple-choice questions for a topic through
// OpenAI function calling and inserts them into the question bank.
type GeneratorService struct {
	client *openai.Client
	quiz   *QuizService
	model  string
	log    *zap.Logger
}

func NewGeneratorService(apiKey, model string, quiz *QuizService, log *zap.Logger) *GeneratorService {
	if log == nil {
		log = zap.NewNop()
	}
	var client *openai.Client
	if apiKey != "" {
		client = openai.NewClient(apiKey)
	}
	if model == "" {
		model = openai.GPT4o
	}
	return &GeneratorService{
		client: client,
		quiz:   quiz,
		model:  model,
		log:    log,
	}
}

type GenerateQuestionsRequest struct {
	Topic      string `json:"topic" binding:"required"`
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count" binding:"required,min=1,max=20"`
}

// generatedQuestion is the shape the model returns through the
// submit_questions tool.
type generatedQuestion struct {
	Text           string   `json:"text"`
	Options        []string `json:"options"`
	CorrectOptions []int    `json:"correct_options"`
	MultiAnswer    bool     `json:"multi_answer"`
	Explanation    string   `json:"explanation"`
}

// GenerateQuestions asks the model for a batch of questions and persists the
// ones that survive validation. Individual bad questions are logged and
// dropped rather than failing the batch.
func (s *GeneratorService) GenerateQuestions(ctx context.Context, req *GenerateQuestionsRequest) ([]models.Question, error) {
	if s.client == nil {
		return nil, ErrGeneratorDisabled
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an expert certification-exam author. Generate high-quality multiple choice questions with exactly 4 options each.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: s.buildPrompt(req),
			},
		},
		Tools: []openai.Tool{
			{
				Type:     openai.ToolTypeFunction,
				Function: &submitQuestionsTool,
			},
		},
		ToolChoice: openai.ToolChoice{
			Type: openai.ToolTypeFunction,
			Function: openai.ToolFunction{
				Name: "submit_questions",
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate questions: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from model")
	}

	choice := resp.Choices[0]
	if len(choice.Message.ToolCalls) == 0 {
		return nil, errors.New("no tool calls in response")
	}
	toolCall := choice.Message.ToolCalls[0]
	if toolCall.Function.Name != "submit_questions" {
		return nil, fmt.Errorf("unexpected tool call: %s", toolCall.Function.Name)
	}

	generated, err := parseToolArguments([]byte(toolCall.Function.Arguments))
	if err != nil {
		return nil, err
	}

	saved := make([]models.Question, 0, len(generated))
	for _, gen := range generated {
		createReq, err := toCreateRequest(gen, req.Topic, req.Difficulty)
		if err != nil {
			s.log.Warn("dropping generated question", zap.String("topic", req.Topic), zap.Error(err))
			continue
		}
		question, err := s.quiz.CreateQuestion(ctx, createReq)
		if err != nil {
			s.log.Warn("failed to save generated question", zap.String("topic", req.Topic), zap.Error(err))
			continue
		}
		saved = append(saved, *question)
	}

	s.log.Info("generated questions",
		zap.String("topic", req.Topic),
		zap.Int("requested", req.Count),
		zap.Int("saved", len(saved)))
	return saved, nil
}

func (s *GeneratorService) buildPrompt(req *GenerateQuestionsRequest) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Generate %d multiple choice certification practice questions about: %s\n\n", req.Count, req.Topic))
	if req.Difficulty != "" {
		sb.WriteString(fmt.Sprintf("Difficulty level: %s\n\n", req.Difficulty))
	}

	sb.WriteString("Requirements:\n")
	sb.WriteString("- Each question must have exactly 4 multiple choice options\n")
	sb.WriteString("- Mark multi_answer true and list several correct_options for 'select all that apply' questions\n")
	sb.WriteString("- The correct answer should be non-obvious but clearly correct\n")
	sb.WriteString("- Incorrect options should be plausible but clearly wrong\n")
	sb.WriteString("- Questions should test understanding, not just memorization\n")
	sb.WriteString("- Provide a brief explanation for why the correct answer is right\n")
	sb.WriteString("- Use the submit_questions tool to return your questions\n")

	return sb.String()
}

var submitQuestionsTool = openai.FunctionDefinition{
	Name:        "submit_questions",
	Description: "Submit generated quiz questions",
	Parameters: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"questions": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"text": map[string]interface{}{
							"type":        "string",
							"description": "The question text",
						},
						"options": map[string]interface{}{
							"type": "array",
							"items": map[string]interface{}{
								"type": "string",
							},
							"description": "Array of 4 multiple choice options",
						},
						"correct_options": map[string]interface{}{
							"type": "array",
							"items": map[string]interface{}{
								"type": "integer",
							},
							"description": "0-based indexes of the correct options",
						},
						"multi_answer": map[string]interface{}{
							"type":        "boolean",
							"description": "True when more than one option is correct",
						},
						"explanation": map[string]interface{}{
							"type":        "string",
							"description": "Brief explanation of why the answer is correct",
						},
					},
					"required": []string{"text", "options", "correct_options", "multi_answer", "explanation"},
				},
			},
		},
		"required": []string{"questions"},
	},
}

func parseToolArguments(raw []byte) ([]generatedQuestion, error) {
	var args struct {
		Questions []generatedQuestion `json:"questions"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("failed to parse tool arguments: %w", err)
	}
	if len(args.Questions) == 0 {
		return nil, errors.New("model returned no questions")
	}
	return args.Questions, nil
}

func toCreateRequest(gen generatedQuestion, topic, difficulty string) (*CreateQuestionRequest, error) {
	if strings.TrimSpace(gen.Text) == "" {
		return nil, errors.New("generated question has no text")
	}
	if len(gen.Options) < 2 {
		return nil, fmt.Errorf("generated question has %d options", len(gen.Options))
	}
	if len(gen.CorrectOptions) == 0 {
		return nil, errors.New("generated question marks no option correct")
	}

	correct := make(map[int]bool, len(gen.CorrectOptions))
	for _, idx := range gen.CorrectOptions {
		if idx < 0 || idx >= len(gen.Options) {
			return nil, fmt.Errorf("correct option index %d out of range", idx)
		}
		correct[idx] = true
	}

	req := &CreateQuestionRequest{
		Text:        gen.Text,
		Topic:       topic,
		Difficulty:  difficulty,
		MultiAnswer: gen.MultiAnswer || len(correct) > 1,
	}
	for i, text := range gen.Options {
		req.Options = append(req.Options, CreateOptionRequest{
			Text:      text,
			IsCorrect: correct[i],
		})
	}
	if req.MultiAnswer {
		for i, text := range gen.Options {
			if correct[i] {
				req.CorrectAnswers = append(req.CorrectAnswers, text)
			}
		}
	}
	return req, nil
}
