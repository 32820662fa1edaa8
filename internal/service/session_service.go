package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hanbyul-kim/examhall/internal/model"
	"github.com/hanbyul-kim/examhall/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// sessionKey enforces one in-progress session per (student, exam).
type sessionKey struct {
	examID    uint
	studentID string
}

// SessionService owns every in-progress exam session. Sessions are ephemeral
// and in-memory: once finalized, their answer set is handed to the Scoring
// Engine and a new attempt gets a fresh session.
type SessionService interface {
	StartSession(examID uint, studentID string) (*ExamSession, error)
	GetSession(sessionID string) (*ExamSession, error)
	RecordAnswer(sessionID string, questionIndex int, answer string) (*ExamSession, error)
	GoTo(sessionID string, questionIndex int) (*ExamSession, error)
	RequestSubmit(sessionID string) (*SubmitReceipt, error)
	Finalize(sessionID string) (*FinalizedAnswerSet, error)
}

type sessionService struct {
	examRepo  repository.ExamRepository
	lifecycle ExamLifecycleService
	scoring   ScoringService
	tick      time.Duration

	mu   sync.Mutex
	byID map[string]*ExamSession
	byKey map[sessionKey]*ExamSession
}

func NewSessionService(examRepo repository.ExamRepository, lifecycle ExamLifecycleService, scoring ScoringService) SessionService {
	return newSessionService(examRepo, lifecycle, scoring, time.Second)
}

func newSessionService(examRepo repository.ExamRepository, lifecycle ExamLifecycleService, scoring ScoringService, tick time.Duration) *sessionService {
	return &sessionService{
		examRepo:  examRepo,
		lifecycle: lifecycle,
		scoring:   scoring,
		tick:      tick,
		byID:      make(map[string]*ExamSession),
		byKey:     make(map[sessionKey]*ExamSession),
	}
}

// StartSession begins a timed attempt. The exam's derived status must be
// active right now. Starting again while an attempt is in progress returns
// the existing session so a second tab rejoins instead of forking state.
func (s *sessionService) StartSession(examID uint, studentID string) (*ExamSession, error) {
	status, err := s.lifecycle.GetStatus(examID, time.Now())
	if err != nil {
		return nil, err
	}
	if status != model.StatusActive {
		return nil, fmt.Errorf("exam %d has status %q: %w", examID, status, ErrExamNotAvailable)
	}

	key := sessionKey{examID: examID, studentID: studentID}

	s.mu.Lock()
	if existing, ok := s.byKey[key]; ok {
		s.mu.Unlock()
		log.Info().Uint("examID", examID).Str("studentID", studentID).
			Str("sessionID", existing.ID()).Msg("StartSession: rejoining in-progress session")
		return existing, nil
	}
	s.mu.Unlock()

	exam, err := s.examRepo.FindByIDWithQuestions(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("exam %d: %w", examID, ErrExamNotFound)
		}
		return nil, fmt.Errorf("loading exam %d for session: %w", examID, err)
	}

	session := newExamSession(exam, studentID, s.tick, s.handleFinalized)

	s.mu.Lock()
	// A concurrent start may have won the race; hand back theirs and drop ours.
	if existing, ok := s.byKey[key]; ok {
		s.mu.Unlock()
		session.countdown.Stop()
		return existing, nil
	}
	s.byID[session.ID()] = session
	s.byKey[key] = session
	s.mu.Unlock()

	log.Info().Uint("examID", examID).Str("studentID", studentID).
		Str("sessionID", session.ID()).Int("questions", len(exam.Questions)).
		Msg("Exam session started")
	return session, nil
}

// handleFinalized runs exactly once per session, on whichever path finalized
// first. It frees the (student, exam) slot so a later attempt gets a new
// session, then hands the answer set to the Scoring Engine. A scoring
// failure is logged and retried through batch grading, never raised back
// into the finalize path.
func (s *sessionService) handleFinalized(set *FinalizedAnswerSet, exam *model.Exam) {
	s.mu.Lock()
	delete(s.byKey, sessionKey{examID: set.ExamID, studentID: set.StudentID})
	s.mu.Unlock()

	log.Info().Str("sessionID", set.SessionID).Uint("examID", set.ExamID).
		Str("studentID", set.StudentID).Bool("autoExpired", set.AutoExpired).
		Msg("Exam session finalized")

	if _, err := s.scoring.ScoreFinalizedSet(set, exam); err != nil {
		log.Error().Err(err).Str("sessionID", set.SessionID).Msg("Failed to score finalized session")
	}
}

func (s *sessionService) GetSession(sessionID string) (*ExamSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.byID[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	}
	return session, nil
}

func (s *sessionService) RecordAnswer(sessionID string, questionIndex int, answer string) (*ExamSession, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.RecordAnswer(questionIndex, answer); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionService) GoTo(sessionID string, questionIndex int) (*ExamSession, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.GoTo(questionIndex); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionService) RequestSubmit(sessionID string) (*SubmitReceipt, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	return session.RequestSubmit(), nil
}

func (s *sessionService) Finalize(sessionID string) (*FinalizedAnswerSet, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	return session.Finalize(), nil
}
