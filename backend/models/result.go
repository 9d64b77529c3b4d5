package models

import "gorm.io/gorm"

// TestResult is an append-only snapshot of one graded submission. Question
// totals are denormalized so historical results stay meaningful after the
// test itself is edited.
type TestResult struct {
	gorm.Model
	MockTestID uint `gorm:"index;not null"`
	UserID     uint `gorm:"index;not null"`

	ListeningScore          int
	ReadingScore            int
	TotalQuestionsListening int
	TotalQuestionsReading   int

	// JSON object with task1_feedback/task2_feedback/overall_suggestion,
	// empty when no writing answers were submitted.
	WritingFeedback string
}
