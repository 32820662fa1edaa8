package model

import (
	"time"

	"gorm.io/gorm"
)

// StudentAnswer is a legacy per-question submission, joined to its
// AnswerKeyEntry by (exam_date, grade, subject_type, selection_type,
// question_no) at grading time.
type StudentAnswer struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	StudentID     string         `json:"student_id" gorm:"not null;index"`
	ExamDate      string         `json:"exam_date" gorm:"not null;index"`
	Grade         int            `json:"grade" gorm:"not null"`
	SubjectType   string         `json:"subject_type" gorm:"not null"`
	SelectionType string         `json:"selection_type" gorm:"not null"`
	QuestionNo    int            `json:"question_no" gorm:"not null"`
	Answer        string         `json:"answer" gorm:"type:text;not null"`
	SubmittedAt   time.Time      `json:"submitted_at" gorm:"autoCreateTime"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a StudentAnswer) Key() AssessmentKey {
	return AssessmentKey{SelectionType: a.SelectionType, QuestionNo: a.QuestionNo}
}
