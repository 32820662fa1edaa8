package service

import (
	"fmt"
	"math"

	"github.com/hanbyul-kim/examhall/internal/dto"
	"github.com/hanbyul-kim/examhall/internal/repository"
)

// StatsService recomputes aggregate numbers on demand; nothing here is
// cached as ground truth.
type StatsService interface {
	ComputeStats(scope *repository.AnswerScope) (*dto.ExamStatsDTO, error)
}

type statsService struct {
	answerKeyRepo     repository.AnswerKeyRepository
	studentRepo       repository.StudentRepository
	studentAnswerRepo repository.StudentAnswerRepository
	scoringRepo       repository.ScoringResultRepository
}

func NewStatsService(
	answerKeyRepo repository.AnswerKeyRepository,
	studentRepo repository.StudentRepository,
	studentAnswerRepo repository.StudentAnswerRepository,
	scoringRepo repository.ScoringResultRepository,
) StatsService {
	return &statsService{
		answerKeyRepo:     answerKeyRepo,
		studentRepo:       studentRepo,
		studentAnswerRepo: studentAnswerRepo,
		scoringRepo:       scoringRepo,
	}
}

// ComputeStats aggregates the dashboard numbers. The totals are global; the
// average score narrows to the scope when one is given.
func (s *statsService) ComputeStats(scope *repository.AnswerScope) (*dto.ExamStatsDTO, error) {
	totalExams, err := s.answerKeyRepo.CountDistinctAssessments()
	if err != nil {
		return nil, fmt.Errorf("counting assessments: %w", err)
	}
	totalStudents, err := s.studentRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("counting students: %w", err)
	}
	totalSubmissions, err := s.studentAnswerRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("counting submissions: %w", err)
	}
	mean, _, err := s.scoringRepo.MeanScore(scope)
	if err != nil {
		return nil, fmt.Errorf("averaging scores: %w", err)
	}

	return &dto.ExamStatsDTO{
		TotalExams:       totalExams,
		TotalStudents:    totalStudents,
		TotalSubmissions: totalSubmissions,
		AverageScore:     math.Round(mean*10) / 10,
	}, nil
}
