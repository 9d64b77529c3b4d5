package services

import (
	"context"
	"testing"

	"project/backend/models"

	"github.com/stretchr/testify/assert"
)

func mockTestFixture() *models.MockTest {
	test := &models.MockTest{
		Title: "IELTS Mock Test 1",
		Sections: []models.Section{
			{
				Title: models.SectionListening,
				Questions: []models.SectionQuestion{
					{Text: "What is the capital of France?", CorrectAnswer: "B"},
				},
			},
			{
				Title:   models.SectionReading,
				Passage: "Lorem ipsum dolor sit amet.",
				Questions: []models.SectionQuestion{
					{Text: "Main idea?", CorrectAnswer: "A"},
					{Text: "According to the passage?", CorrectAnswer: "X"},
				},
			},
			{
				Title: models.SectionWriting,
				Task1: "Describe the graph below.",
				Task2: "Write an essay on the topic.",
			},
		},
	}

	// IDs as they would come out of the database.
	test.Sections[0].Questions[0].ID = 1
	test.Sections[1].Questions[0].ID = 2
	test.Sections[1].Questions[1].ID = 3
	return test
}

func TestGrade(t *testing.T) {
	tests := []struct {
		name    string
		answers Submission
		want    GradingResult
	}{
		{
			name:    "correct listening answer",
			answers: Submission{"listening": {"1": "B"}},
			want:    GradingResult{ListeningScore: 1, TotalQuestionsListening: 1, TotalQuestionsReading: 2},
		},
		{
			name:    "wrong listening answer",
			answers: Submission{"listening": {"1": "C"}},
			want:    GradingResult{ListeningScore: 0, TotalQuestionsListening: 1, TotalQuestionsReading: 2},
		},
		{
			name:    "section omitted entirely still counts stored questions",
			answers: Submission{"reading": {"2": "A"}},
			want:    GradingResult{ReadingScore: 1, TotalQuestionsListening: 1, TotalQuestionsReading: 2},
		},
		{
			name:    "all sections answered",
			answers: Submission{"listening": {"1": "B"}, "reading": {"2": "A", "3": "X"}},
			want:    GradingResult{ListeningScore: 1, ReadingScore: 2, TotalQuestionsListening: 1, TotalQuestionsReading: 2},
		},
		{
			name:    "match is case-sensitive and exact",
			answers: Submission{"listening": {"1": "b"}, "reading": {"2": "A ", "3": "X"}},
			want:    GradingResult{ReadingScore: 1, TotalQuestionsListening: 1, TotalQuestionsReading: 2},
		},
		{
			name:    "unknown question ids are ignored",
			answers: Submission{"listening": {"99": "B"}, "reading": {"abc": "A"}},
			want:    GradingResult{TotalQuestionsListening: 1, TotalQuestionsReading: 2},
		},
		{
			name:    "empty submission",
			answers: Submission{},
			want:    GradingResult{TotalQuestionsListening: 1, TotalQuestionsReading: 2},
		},
		{
			name:    "nil submission",
			answers: nil,
			want:    GradingResult{TotalQuestionsListening: 1, TotalQuestionsReading: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Grade(mockTestFixture(), tt.answers)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGradeMissingSections(t *testing.T) {
	// A test without sections grades to zero scores and zero totals.
	test := &models.MockTest{Title: "Empty"}
	got := Grade(test, Submission{"listening": {"1": "B"}})
	assert.Equal(t, GradingResult{}, got)
}

func TestWritingAnswers(t *testing.T) {
	task1, task2, ok := WritingAnswers(Submission{
		"writing": {"task1": "graph description", "task2": "essay"},
	})
	assert.True(t, ok)
	assert.Equal(t, "graph description", task1)
	assert.Equal(t, "essay", task2)

	_, _, ok = WritingAnswers(Submission{"listening": {"1": "B"}})
	assert.False(t, ok)

	_, _, ok = WritingAnswers(Submission{"writing": {}})
	assert.False(t, ok)
}

func TestStaticEvaluator(t *testing.T) {
	feedback, err := StaticEvaluator{}.Evaluate(context.Background(), "t1", "t2")
	assert.NoError(t, err)
	assert.NotEmpty(t, feedback.Task1Feedback)
	assert.NotEmpty(t, feedback.Task2Feedback)
	assert.NotEmpty(t, feedback.OverallSuggestion)
}
