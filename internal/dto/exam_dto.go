package dto

import "time"

// QuestionResponseDTO is the student-facing view of a question. The correct
// answer is deliberately absent.
type QuestionResponseDTO struct {
	ID             uint     `json:"id"`
	ExamID         uint     `json:"exam_id"`
	QuestionNumber int      `json:"question_number"`
	Type           string   `json:"type"`
	Text           string   `json:"text"`
	Options        []string `json:"options,omitempty"`
	Points         int      `json:"points"`
}

// ExamResponseDTO is the full exam view returned to a student about to start
// a session.
type ExamResponseDTO struct {
	ID              uint                  `json:"id"`
	Title           string                `json:"title"`
	Grade           int                   `json:"grade"`
	Subject         string                `json:"subject"`
	StartTime       time.Time             `json:"start_time"`
	EndTime         time.Time             `json:"end_time"`
	DurationMinutes int                   `json:"duration_minutes"`
	Status          string                `json:"status"`
	Questions       []QuestionResponseDTO `json:"questions,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

// ExamSummaryDTO is used for exam listings.
type ExamSummaryDTO struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Grade           int       `json:"grade"`
	Subject         string    `json:"subject"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	QuestionCount   int       `json:"question_count"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
