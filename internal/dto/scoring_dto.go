package dto

import "time"

// StudentAnswerSubmitDTO is the legacy per-question submission intake.
type StudentAnswerSubmitDTO struct {
	StudentID     string `json:"student_id" binding:"required"`
	ExamDate      string `json:"exam_date" binding:"required"`
	Grade         int    `json:"grade" binding:"required,min=1"`
	SubjectType   string `json:"subject_type" binding:"required"`
	SelectionType string `json:"selection_type" binding:"required"`
	QuestionNo    int    `json:"question_no" binding:"required,min=1"`
	Answer        string `json:"answer"`
}

// ScoringResultDTO is one graded question for one student.
type ScoringResultDTO struct {
	ID            uint      `json:"id"`
	StudentID     string    `json:"student_id"`
	ExamDate      string    `json:"exam_date"`
	Grade         int       `json:"grade"`
	SubjectType   string    `json:"subject_type"`
	SelectionType string    `json:"selection_type"`
	QuestionNo    int       `json:"question_no"`
	CorrectAnswer string    `json:"correct_answer"`
	StudentAnswer string    `json:"student_answer"`
	IsCorrect     bool      `json:"is_correct"`
	Score         int       `json:"score"`
	CreatedAt     time.Time `json:"created_at"`
}

// SubmissionScoreDTO summarises one scored finalized answer set.
type SubmissionScoreDTO struct {
	ExamID     uint               `json:"exam_id"`
	StudentID  string             `json:"student_id"`
	TotalScore int                `json:"total_score"`
	MaxScore   int                `json:"max_score"`
	Percentage float64            `json:"percentage"`
	Results    []ScoringResultDTO `json:"results"`
}

// GradingSummaryDTO reports a batch grading run. Unmatched answers are
// excluded from scoring by policy but still counted here so orphaned
// submissions stay visible.
type GradingSummaryDTO struct {
	Graded       int     `json:"graded"`
	Unmatched    int     `json:"unmatched"`
	KeyConflicts int     `json:"key_conflicts"`
	Failed       int     `json:"failed"`
	MeanScore    float64 `json:"mean_score"`
}

// ExamStatsDTO is recomputed on demand, never cached as ground truth.
type ExamStatsDTO struct {
	TotalExams       int64   `json:"total_exams"`
	TotalStudents    int64   `json:"total_students"`
	TotalSubmissions int64   `json:"total_submissions"`
	AverageScore     float64 `json:"average_score"`
}
