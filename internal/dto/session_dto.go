package dto

import "time"

// StartSessionDTO begins a timed attempt at an active exam.
type StartSessionDTO struct {
	StudentID string `json:"student_id" binding:"required"`
}

// RecordAnswerDTO overwrites the answer for one question of a session.
// QuestionIndex is 0-based.
type RecordAnswerDTO struct {
	QuestionIndex *int   `json:"question_index" binding:"required,min=0"`
	Answer        string `json:"answer"`
}

// GoToDTO moves the session's current question pointer.
type GoToDTO struct {
	QuestionIndex *int `json:"question_index" binding:"required,min=0"`
}

// SessionStateDTO is the live view of an in-progress session.
type SessionStateDTO struct {
	SessionID        string    `json:"session_id"`
	ExamID           uint      `json:"exam_id"`
	StudentID        string    `json:"student_id"`
	StartedAt        time.Time `json:"started_at"`
	RemainingSeconds int       `json:"remaining_seconds"`
	CurrentQuestion  int       `json:"current_question"`
	QuestionCount    int       `json:"question_count"`
	AnsweredCount    int       `json:"answered_count"`
	Finalized        bool      `json:"finalized"`
}

// SubmitReceiptDTO is returned by the submit-request endpoint. When not all
// questions are answered the first call only arms the confirmation.
type SubmitReceiptDTO struct {
	Finalized            bool                   `json:"finalized"`
	UnansweredCount      int                    `json:"unanswered_count"`
	ConfirmationRequired bool                   `json:"confirmation_required"`
	Answers              *FinalizedAnswerSetDTO `json:"answers,omitempty"`
}

// FinalizedAnswerSetDTO is the immutable snapshot a session emits exactly
// once, keyed by 1-based question number. Unanswered questions appear as
// empty strings.
type FinalizedAnswerSetDTO struct {
	SessionID   string         `json:"session_id"`
	ExamID      uint           `json:"exam_id"`
	StudentID   string         `json:"student_id"`
	SubmittedAt time.Time      `json:"submitted_at"`
	Answers     map[int]string `json:"answers"`
	AutoExpired bool           `json:"auto_expired"`
}
