package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/hanbyul-kim/examhall/internal/model"
	"github.com/hanbyul-kim/examhall/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// DeriveStatus computes an exam's lifecycle status purely from its schedule
// window and the current time. There is no stored previous state to consult:
// a deactivated exam is draft regardless of the window, otherwise the window
// alone decides.
func DeriveStatus(start, end, now time.Time, isActive bool) model.ExamStatus {
	if !isActive {
		return model.StatusDraft
	}
	switch {
	case now.Before(start):
		return model.StatusScheduled
	case now.Before(end):
		return model.StatusActive
	default:
		return model.StatusCompleted
	}
}

// ExamLifecycleService keeps stored exam statuses in line with the
// time-derived truth.
type ExamLifecycleService interface {
	RefreshStatuses(now time.Time) error
	GetStatus(examID uint, now time.Time) (model.ExamStatus, error)
}

type examLifecycleService struct {
	examRepo repository.ExamRepository
}

func NewExamLifecycleService(examRepo repository.ExamRepository) ExamLifecycleService {
	return &examLifecycleService{examRepo: examRepo}
}

// RefreshStatuses updates every exam whose stored status disagrees with the
// derived one. Each exam is an independent unit: a failed update is logged
// and retried on the next sweep, never aborting the rest.
func (s *examLifecycleService) RefreshStatuses(now time.Time) error {
	exams, err := s.examRepo.FindAll()
	if err != nil {
		log.Error().Err(err).Msg("RefreshStatuses: failed to load exams")
		return fmt.Errorf("loading exams for status sweep: %w", err)
	}

	updated := 0
	for _, exam := range exams {
		derived := DeriveStatus(exam.StartTime, exam.EndTime, now, exam.IsActive)
		if exam.Status == derived {
			continue
		}
		if err := s.examRepo.UpdateStatus(exam.ID, derived); err != nil {
			log.Error().Err(err).Uint("examID", exam.ID).
				Str("from", string(exam.Status)).Str("to", string(derived)).
				Msg("RefreshStatuses: failed to persist status, will retry next sweep")
			continue
		}
		updated++
	}
	if updated > 0 {
		log.Info().Int("updated", updated).Int("total", len(exams)).Msg("Exam status sweep applied transitions")
	}
	return nil
}

// GetStatus answers a status probe from the derived truth, repairing the
// stored row opportunistically so a stale sweep is never visible to callers.
func (s *examLifecycleService) GetStatus(examID uint, now time.Time) (model.ExamStatus, error) {
	exam, err := s.examRepo.FindByID(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("exam %d: %w", examID, ErrExamNotFound)
		}
		return "", fmt.Errorf("loading exam %d: %w", examID, err)
	}

	derived := DeriveStatus(exam.StartTime, exam.EndTime, now, exam.IsActive)
	if exam.Status != derived {
		if err := s.examRepo.UpdateStatus(exam.ID, derived); err != nil {
			log.Warn().Err(err).Uint("examID", exam.ID).Msg("GetStatus: failed to repair stored status")
		}
	}
	return derived, nil
}
