package models

import "gorm.io/gorm"

type Quiz struct {
	gorm.Model
	Title       string `gorm:"not null"`
	Description string
	OwnerID     uint `gorm:"index;not null"`

	Questions []Question `gorm:"constraint:OnDelete:CASCADE"`
}

type Question struct {
	gorm.Model
	QuizID        uint   `gorm:"index;not null"`
	Text          string `gorm:"not null"`
	Options       string // JSON array of options
	CorrectAnswer string
}
