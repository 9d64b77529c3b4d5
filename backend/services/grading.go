package services

import (
	"strconv"

	"project/backend/models"
)

// Submission maps a section title (listening, reading, writing) to the
// learner's answers keyed by question id. Writing answers are keyed by task
// name (task1, task2) instead of question id.
type Submission map[string]map[string]string

// WritingFeedback is the structured output of the writing evaluator, stored
// on results as a JSON string.
type WritingFeedback struct {
	Task1Feedback     string `json:"task1_feedback"`
	Task2Feedback     string `json:"task2_feedback"`
	OverallSuggestion string `json:"overall_suggestion"`
}

// GradingResult holds per-section scores together with the question counts
// at grading time.
type GradingResult struct {
	ListeningScore          int              `json:"listening_score"`
	ReadingScore            int              `json:"reading_score"`
	TotalQuestionsListening int              `json:"total_questions_listening"`
	TotalQuestionsReading   int              `json:"total_questions_reading"`
	WritingFeedback         *WritingFeedback `json:"writing_feedback"`
}

// Grade scores the objective sections of a mock test against a submission.
// Matching is exact and case-sensitive; answers for unknown question ids and
// questions without a submitted answer are silently ignored, so grading a
// well-formed mock test never fails. Totals always reflect the question
// counts stored on the test at grading time. Writing is not scored here; see
// WritingEvaluator.
func Grade(test *models.MockTest, answers Submission) GradingResult {
	var result GradingResult

	result.ListeningScore, result.TotalQuestionsListening =
		gradeSection(test.SectionByTitle(models.SectionListening), answers[models.SectionListening])
	result.ReadingScore, result.TotalQuestionsReading =
		gradeSection(test.SectionByTitle(models.SectionReading), answers[models.SectionReading])

	return result
}

func gradeSection(section *models.Section, answers map[string]string) (score, total int) {
	if section == nil {
		return 0, 0
	}

	for _, q := range section.Questions {
		answer, ok := answers[strconv.FormatUint(uint64(q.ID), 10)]
		if ok && answer == q.CorrectAnswer {
			score++
		}
	}

	return score, len(section.Questions)
}

// WritingAnswers extracts the two writing task texts from a submission.
// Returns false when no writing answers were submitted at all.
func WritingAnswers(answers Submission) (task1, task2 string, ok bool) {
	writing, ok := answers[models.SectionWriting]
	if !ok || len(writing) == 0 {
		return "", "", false
	}
	return writing["task1"], writing["task2"], true
}
