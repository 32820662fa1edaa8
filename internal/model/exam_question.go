package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeTrueFalse      = "true_false"
	QuestionTypeShortAnswer    = "short_answer"
	QuestionTypeEssay          = "essay"
)

type ExamQuestion struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	ExamID         uint           `json:"exam_id" gorm:"not null;index"`
	QuestionNumber int            `json:"question_number" gorm:"not null"` // 1-based, contiguous within an exam
	Type           string         `json:"type" gorm:"not null"`
	Text           string         `json:"text" gorm:"type:text;not null"`
	Options        []string       `json:"options,omitempty" gorm:"serializer:json"` // multiple_choice only, lettered A, B, C by position
	CorrectAnswer  string         `json:"correct_answer" gorm:"not null"`
	Points         int            `json:"points" gorm:"default:1"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// Weight returns the question's point value, defaulting to 1 when unset.
func (q ExamQuestion) Weight() int {
	if q.Points <= 0 {
		return 1
	}
	return q.Points
}
