package service

import "errors"

var (
	// ErrExamNotFound is returned when an exam ID resolves to nothing.
	ErrExamNotFound = errors.New("exam not found")

	// ErrExamNotAvailable is returned when a session is started against an
	// exam whose derived status is not active.
	ErrExamNotAvailable = errors.New("exam is not available for taking")

	// ErrSessionNotFound is returned when a session ID resolves to nothing.
	ErrSessionNotFound = errors.New("exam session not found")

	// ErrQuestionIndexOutOfRange is returned for navigation or answers
	// addressed outside [0, questionCount-1].
	ErrQuestionIndexOutOfRange = errors.New("question index out of range")

	// ErrDuplicateKeyEntry signals two answer key rows sharing the same
	// (exam_date, grade, subject, selection_type, question_no). This is a
	// data-integrity error and is never resolved silently.
	ErrDuplicateKeyEntry = errors.New("duplicate answer key entry")
)
