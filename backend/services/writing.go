package services

import (
	"context"
	"encoding/json"
	"fmt"

	"project/backend/config"

	openai "github.com/sashabaranov/go-openai"
)

// WritingEvaluator produces structured feedback for the two writing tasks.
// Implementations are best-effort collaborators: a failure must never abort
// grading of the objective sections.
type WritingEvaluator interface {
	Evaluate(ctx context.Context, task1Text, task2Text string) (*WritingFeedback, error)
}

// NewWritingEvaluator selects the OpenAI-backed evaluator when an API key is
// configured and the static placeholder evaluator otherwise.
func NewWritingEvaluator(cfg *config.Config) WritingEvaluator {
	if cfg.OpenAIAPIKey != "" {
		return NewOpenAIEvaluator(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}
	return StaticEvaluator{}
}

// OpenAIEvaluator asks an OpenAI-compatible model for IELTS writing feedback.
type OpenAIEvaluator struct {
	api   *openai.Client
	model string
}

func NewOpenAIEvaluator(baseURL, apiKey, model string) *OpenAIEvaluator {
	conf := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		conf.BaseURL = baseURL
	}
	return &OpenAIEvaluator{
		api:   openai.NewClientWithConfig(conf),
		model: model,
	}
}

const writingSystemPrompt = `You are an IELTS writing examiner. The student completed two writing tasks.
Respond with a JSON object with exactly these string fields:
"task1_feedback", "task2_feedback", "overall_suggestion".
Keep each field under 100 words and address task achievement, coherence, vocabulary and grammar.`

func (e *OpenAIEvaluator) Evaluate(ctx context.Context, task1Text, task2Text string) (*WritingFeedback, error) {
	resp, err := e.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: writingSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Task 1 answer:\n%s\n\nTask 2 answer:\n%s", task1Text, task2Text)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("writing feedback API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("writing feedback: model returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	var feedback WritingFeedback
	if err := json.Unmarshal([]byte(raw), &feedback); err != nil {
		return nil, fmt.Errorf("parse writing feedback: %w (raw: %s)", err, raw)
	}

	return &feedback, nil
}

// StaticEvaluator returns fixed placeholder feedback. Used when no model is
// configured and in tests.
type StaticEvaluator struct{}

func (StaticEvaluator) Evaluate(ctx context.Context, task1Text, task2Text string) (*WritingFeedback, error) {
	return &WritingFeedback{
		Task1Feedback:     "Task 1 received. A detailed review will be provided by your teacher.",
		Task2Feedback:     "Task 2 received. A detailed review will be provided by your teacher.",
		OverallSuggestion: "Keep practicing both task types under timed conditions.",
	}, nil
}
