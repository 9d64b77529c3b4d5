package models

import "gorm.io/gorm"

// Fixed section titles of a mock test. Every mock test has exactly one
// section per title.
const (
	SectionListening = "listening"
	SectionReading   = "reading"
	SectionWriting   = "writing"
)

type MockTest struct {
	gorm.Model
	Title       string `gorm:"not null"`
	Description string
	OwnerID     uint `gorm:"index;not null"`

	Sections []Section `gorm:"constraint:OnDelete:CASCADE"`
}

// Section is one part of a mock test. Title discriminates the kind:
// listening and reading sections own questions, reading additionally has a
// passage, writing has two free-text task prompts and no questions.
type Section struct {
	gorm.Model
	MockTestID uint   `gorm:"index;not null"`
	Title      string `gorm:"type:varchar(16);not null"`
	Passage    string // reading only
	Task1      string // writing only
	Task2      string // writing only

	Questions []SectionQuestion `gorm:"constraint:OnDelete:CASCADE"`
}

type SectionQuestion struct {
	gorm.Model
	SectionID     uint   `gorm:"index;not null"`
	Text          string `gorm:"not null"`
	Options       string // JSON array of options
	CorrectAnswer string
}

// SectionByTitle returns the section with the given fixed title, or nil.
func (mt *MockTest) SectionByTitle(title string) *Section {
	for i := range mt.Sections {
		if mt.Sections[i].Title == title {
			return &mt.Sections[i]
		}
	}
	return nil
}
