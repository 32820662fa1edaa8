package model

import (
	"time"

	"gorm.io/gorm"
)

// AnswerKeyEntry is the authoritative correct answer for one question of a
// legacy paper assessment, keyed by (exam_date, grade, subject_type,
// selection_type, question_no). The composite unique index enforces the
// one-key-per-question invariant at the database level.
type AnswerKeyEntry struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	ExamDate      string         `json:"exam_date" gorm:"not null;uniqueIndex:idx_answer_key"`
	Grade         int            `json:"grade" gorm:"not null;uniqueIndex:idx_answer_key"`
	SubjectType   string         `json:"subject_type" gorm:"not null;uniqueIndex:idx_answer_key"`
	SelectionType string         `json:"selection_type" gorm:"not null;uniqueIndex:idx_answer_key"`
	QuestionNo    int            `json:"question_no" gorm:"not null;uniqueIndex:idx_answer_key"`
	CorrectAnswer string         `json:"correct_answer" gorm:"not null"`
	Weight        int            `json:"weight" gorm:"default:1"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// AssessmentKey identifies the (selection_type, question_no) pair a student
// answer joins on within one (exam_date, grade, subject_type) scope.
type AssessmentKey struct {
	SelectionType string
	QuestionNo    int
}

func (e AnswerKeyEntry) Key() AssessmentKey {
	return AssessmentKey{SelectionType: e.SelectionType, QuestionNo: e.QuestionNo}
}
