package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hanbyul-kim/examhall/internal/model"
)

// FinalizedAnswerSet is the immutable snapshot a session emits exactly once,
// keyed by 1-based question number. Unanswered questions are present as
// empty strings.
type FinalizedAnswerSet struct {
	SessionID   string
	ExamID      uint
	StudentID   string
	SubmittedAt time.Time
	Answers     map[int]string
	AutoExpired bool
}

// SubmitReceipt is the outcome of a submit request. When unanswered
// questions remain, the first request only arms the confirmation step.
type SubmitReceipt struct {
	Finalized            bool
	UnansweredCount      int
	ConfirmationRequired bool
	Answers              *FinalizedAnswerSet
}

// SessionState is a point-in-time snapshot for progress display.
type SessionState struct {
	SessionID        string
	ExamID           uint
	StudentID        string
	StartedAt        time.Time
	RemainingSeconds int
	CurrentQuestion  int
	QuestionCount    int
	AnsweredCount    int
	Finalized        bool
}

// ExamSession is one student's bounded-time attempt at one exam. All state
// is owned by the session and guarded by its mutex; the countdown goroutine
// is scoped to this session and touches nothing shared.
type ExamSession struct {
	id        string
	exam      *model.Exam // questions preloaded in question_number order
	studentID string
	startedAt time.Time

	mu              sync.Mutex
	remaining       int
	current         int            // 0-based pointer, bounded to [0, len(questions)-1]
	answers         map[int]string // 0-based question index -> answer
	submitRequested bool
	finalized       *FinalizedAnswerSet

	countdown  *Countdown
	onFinalize func(set *FinalizedAnswerSet, exam *model.Exam)
}

// newExamSession starts the per-session countdown immediately. onFinalize is
// invoked exactly once, on whichever path finalizes first.
func newExamSession(exam *model.Exam, studentID string, tick time.Duration, onFinalize func(*FinalizedAnswerSet, *model.Exam)) *ExamSession {
	s := &ExamSession{
		id:         uuid.NewString(),
		exam:       exam,
		studentID:  studentID,
		startedAt:  time.Now(),
		remaining:  exam.DurationMinutes * 60,
		answers:    make(map[int]string),
		onFinalize: onFinalize,
	}
	// The field must be set before the goroutine launches: the expiry path
	// reads s.countdown, so starting first would race the assignment.
	s.countdown = NewCountdown(s.remaining, tick,
		func(remaining int) {
			s.mu.Lock()
			s.remaining = remaining
			s.mu.Unlock()
		},
		func() {
			s.finalize(true)
		},
	)
	s.countdown.Start()
	return s
}

func (s *ExamSession) ID() string { return s.id }

// RecordAnswer overwrites any prior answer for the question. Answer shape is
// not validated here; correctness is the Scoring Engine's job. Mutations
// after finalize are silently ignored so the timer race stays safe.
func (s *ExamSession) RecordAnswer(questionIndex int, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized != nil {
		return nil
	}
	if questionIndex < 0 || questionIndex >= len(s.exam.Questions) {
		return ErrQuestionIndexOutOfRange
	}
	s.answers[questionIndex] = answer
	return nil
}

// GoTo moves the current question pointer. Navigation is free in both
// directions.
func (s *ExamSession) GoTo(questionIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized != nil {
		return nil
	}
	if questionIndex < 0 || questionIndex >= len(s.exam.Questions) {
		return ErrQuestionIndexOutOfRange
	}
	s.current = questionIndex
	return nil
}

// RequestSubmit finalizes when every question is answered. Otherwise the
// first call reports how many questions are unanswered and arms the
// confirmation; the confirming call finalizes regardless. This is a UX
// safety contract, not a hard block.
func (s *ExamSession) RequestSubmit() *SubmitReceipt {
	s.mu.Lock()
	if s.finalized != nil {
		set := s.finalized
		s.mu.Unlock()
		return &SubmitReceipt{Finalized: true, Answers: set}
	}
	unanswered := len(s.exam.Questions) - len(s.answers)
	if unanswered > 0 && !s.submitRequested {
		s.submitRequested = true
		s.mu.Unlock()
		return &SubmitReceipt{UnansweredCount: unanswered, ConfirmationRequired: true}
	}
	s.mu.Unlock()

	set := s.finalize(false)
	return &SubmitReceipt{Finalized: true, Answers: set}
}

// Finalize emits the answer set. Idempotent: the first call (manual or timer
// expiry) produces the set, every later call returns the identical one.
func (s *ExamSession) Finalize() *FinalizedAnswerSet {
	return s.finalize(false)
}

func (s *ExamSession) finalize(autoExpired bool) *FinalizedAnswerSet {
	s.mu.Lock()
	if s.finalized != nil {
		set := s.finalized
		s.mu.Unlock()
		return set
	}

	answers := make(map[int]string, len(s.exam.Questions))
	for i, q := range s.exam.Questions {
		answers[q.QuestionNumber] = s.answers[i] // missing entries become ""
	}
	set := &FinalizedAnswerSet{
		SessionID:   s.id,
		ExamID:      s.exam.ID,
		StudentID:   s.studentID,
		SubmittedAt: time.Now(),
		Answers:     answers,
		AutoExpired: autoExpired,
	}
	s.finalized = set
	s.mu.Unlock()

	s.countdown.Stop()
	if s.onFinalize != nil {
		s.onFinalize(set, s.exam)
	}
	return set
}

// State returns a snapshot for progress display.
func (s *ExamSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionState{
		SessionID:        s.id,
		ExamID:           s.exam.ID,
		StudentID:        s.studentID,
		StartedAt:        s.startedAt,
		RemainingSeconds: s.remaining,
		CurrentQuestion:  s.current,
		QuestionCount:    len(s.exam.Questions),
		AnsweredCount:    len(s.answers),
		Finalized:        s.finalized != nil,
	}
}
