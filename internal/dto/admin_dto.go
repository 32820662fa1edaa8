package dto

import "time"

// QuestionCreateDTO is used within ExamCreateDTO for admin exam authoring.
type QuestionCreateDTO struct {
	QuestionNumber int      `json:"question_number" binding:"required,min=1"`
	Type           string   `json:"type" binding:"required,oneof=multiple_choice true_false short_answer essay"`
	Text           string   `json:"text" binding:"required"`
	Options        []string `json:"options"` // multiple_choice only, lettered by position
	CorrectAnswer  string   `json:"correct_answer" binding:"required"`
	Points         int      `json:"points" binding:"omitempty,min=1"`
}

// ExamCreateDTO is for admin to create a new exam with all its questions.
type ExamCreateDTO struct {
	Title           string              `json:"title" binding:"required"`
	Grade           int                 `json:"grade" binding:"required,min=1"`
	Subject         string              `json:"subject" binding:"required"`
	StartTime       time.Time           `json:"start_time" binding:"required"`
	EndTime         time.Time           `json:"end_time" binding:"required"`
	DurationMinutes int                 `json:"duration_minutes" binding:"required,min=1"`
	Questions       []QuestionCreateDTO `json:"questions" binding:"required,min=1,dive"`
}

// ExamActivationDTO toggles the administrative kill switch on an exam.
type ExamActivationDTO struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// AnswerKeyEntryCreateDTO registers one authoritative answer for the legacy
// key-matched grading path.
type AnswerKeyEntryCreateDTO struct {
	ExamDate      string `json:"exam_date" binding:"required"`
	Grade         int    `json:"grade" binding:"required,min=1"`
	SubjectType   string `json:"subject_type" binding:"required"`
	SelectionType string `json:"selection_type" binding:"required"`
	QuestionNo    int    `json:"question_no" binding:"required,min=1"`
	CorrectAnswer string `json:"correct_answer" binding:"required"`
	Weight        int    `json:"weight" binding:"omitempty,min=1"`
}

// GradingScopeDTO narrows a batch grading run or a stats query. Empty fields
// mean "all".
type GradingScopeDTO struct {
	ExamDate    string `json:"exam_date" form:"exam_date"`
	Grade       int    `json:"grade" form:"grade"`
	SubjectType string `json:"subject_type" form:"subject_type"`
}
