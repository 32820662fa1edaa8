package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/hanbyul-kim/examhall/internal/dto"
	"github.com/hanbyul-kim/examhall/internal/model"
	"github.com/hanbyul-kim/examhall/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// StudentExamService is the read side students see plus the legacy
// per-question submission intake.
type StudentExamService interface {
	ListExams(grade int) ([]dto.ExamSummaryDTO, error)
	GetExamDetails(examID uint) (*dto.ExamResponseDTO, error)
	SubmitLegacyAnswer(req dto.StudentAnswerSubmitDTO) (*model.StudentAnswer, error)
	GetStudentResults(studentID string) ([]dto.ScoringResultDTO, error)
}

type studentExamService struct {
	examRepo          repository.ExamRepository
	studentAnswerRepo repository.StudentAnswerRepository
	scoringRepo       repository.ScoringResultRepository
}

func NewStudentExamService(
	examRepo repository.ExamRepository,
	studentAnswerRepo repository.StudentAnswerRepository,
	scoringRepo repository.ScoringResultRepository,
) StudentExamService {
	return &studentExamService{
		examRepo:          examRepo,
		studentAnswerRepo: studentAnswerRepo,
		scoringRepo:       scoringRepo,
	}
}

// ListExams reports live statuses derived from the current time, so a list
// rendered between sweep ticks is never stale.
func (s *studentExamService) ListExams(grade int) ([]dto.ExamSummaryDTO, error) {
	examsWithCount, err := s.examRepo.FindByGradeWithQuestionCount(grade)
	if err != nil {
		log.Error().Err(err).Int("grade", grade).Msg("ListExams: repository error")
		return nil, fmt.Errorf("listing exams: %w", err)
	}

	now := time.Now()
	summaries := make([]dto.ExamSummaryDTO, 0, len(examsWithCount))
	for _, ewc := range examsWithCount {
		summaries = append(summaries, dto.ExamSummaryDTO{
			ID:              ewc.Exam.ID,
			Title:           ewc.Exam.Title,
			Grade:           ewc.Exam.Grade,
			Subject:         ewc.Exam.Subject,
			StartTime:       ewc.Exam.StartTime,
			EndTime:         ewc.Exam.EndTime,
			DurationMinutes: ewc.Exam.DurationMinutes,
			Status:          string(DeriveStatus(ewc.Exam.StartTime, ewc.Exam.EndTime, now, ewc.Exam.IsActive)),
			QuestionCount:   ewc.QuestionCount,
		})
	}
	return summaries, nil
}

func (s *studentExamService) GetExamDetails(examID uint) (*dto.ExamResponseDTO, error) {
	exam, err := s.examRepo.FindByIDWithQuestions(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("exam %d: %w", examID, ErrExamNotFound)
		}
		return nil, fmt.Errorf("loading exam %d: %w", examID, err)
	}

	var resp dto.ExamResponseDTO
	if err := copier.Copy(&resp, exam); err != nil {
		return nil, fmt.Errorf("preparing exam details response: %w", err)
	}
	resp.Status = string(DeriveStatus(exam.StartTime, exam.EndTime, time.Now(), exam.IsActive))
	return &resp, nil
}

func (s *studentExamService) SubmitLegacyAnswer(req dto.StudentAnswerSubmitDTO) (*model.StudentAnswer, error) {
	answer := model.StudentAnswer{
		StudentID:     req.StudentID,
		ExamDate:      req.ExamDate,
		Grade:         req.Grade,
		SubjectType:   req.SubjectType,
		SelectionType: req.SelectionType,
		QuestionNo:    req.QuestionNo,
		Answer:        req.Answer,
	}
	if err := s.studentAnswerRepo.Create(&answer); err != nil {
		return nil, fmt.Errorf("recording student answer: %w", err)
	}
	return &answer, nil
}

func (s *studentExamService) GetStudentResults(studentID string) ([]dto.ScoringResultDTO, error) {
	results, err := s.scoringRepo.FindByStudent(studentID)
	if err != nil {
		return nil, fmt.Errorf("loading results for student %s: %w", studentID, err)
	}
	dtos := make([]dto.ScoringResultDTO, len(results))
	for i := range results {
		if err := copier.Copy(&dtos[i], &results[i]); err != nil {
			return nil, fmt.Errorf("preparing results response: %w", err)
		}
	}
	return dtos, nil
}
