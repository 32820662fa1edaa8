package model

import (
	"time"

	"gorm.io/gorm"
)

// ScoringResult is one graded question for one student. Re-scoring the same
// (student, assessment key, question) upserts onto idx_scoring_result rather
// than appending a second row.
type ScoringResult struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	StudentID     string         `json:"student_id" gorm:"not null;uniqueIndex:idx_scoring_result"`
	ExamDate      string         `json:"exam_date" gorm:"not null;uniqueIndex:idx_scoring_result"`
	Grade         int            `json:"grade" gorm:"not null;uniqueIndex:idx_scoring_result"`
	SubjectType   string         `json:"subject_type" gorm:"not null;uniqueIndex:idx_scoring_result"`
	SelectionType string         `json:"selection_type" gorm:"not null;uniqueIndex:idx_scoring_result"`
	QuestionNo    int            `json:"question_no" gorm:"not null;uniqueIndex:idx_scoring_result"`
	CorrectAnswer string         `json:"correct_answer" gorm:"not null"` // snapshot at scoring time
	StudentAnswer string         `json:"student_answer" gorm:"type:text"`
	IsCorrect     bool           `json:"is_correct"`
	Score         int            `json:"score"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
