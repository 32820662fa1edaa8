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

// AdminExamService covers the authoring flows: exam definitions, the
// administrative kill switch, and answer key registration.
type AdminExamService interface {
	CreateExam(req dto.ExamCreateDTO) (*dto.ExamResponseDTO, error)
	ListExams(grade int) ([]dto.ExamSummaryDTO, error)
	SetExamActive(examID uint, active bool) error
	CreateAnswerKeyEntry(req dto.AnswerKeyEntryCreateDTO) (*model.AnswerKeyEntry, error)
}

type adminExamService struct {
	examRepo      repository.ExamRepository
	answerKeyRepo repository.AnswerKeyRepository
}

func NewAdminExamService(examRepo repository.ExamRepository, answerKeyRepo repository.AnswerKeyRepository) AdminExamService {
	return &adminExamService{examRepo: examRepo, answerKeyRepo: answerKeyRepo}
}

func (s *adminExamService) CreateExam(req dto.ExamCreateDTO) (*dto.ExamResponseDTO, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, fmt.Errorf("exam window invalid: end_time must be after start_time")
	}
	if err := validateQuestionNumbers(req.Questions); err != nil {
		return nil, err
	}

	exam := model.Exam{
		Title:           req.Title,
		Grade:           req.Grade,
		Subject:         req.Subject,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		DurationMinutes: req.DurationMinutes,
		IsActive:        true,
	}
	exam.Status = DeriveStatus(exam.StartTime, exam.EndTime, time.Now(), exam.IsActive)
	for _, q := range req.Questions {
		points := q.Points
		if points <= 0 {
			points = 1
		}
		exam.Questions = append(exam.Questions, model.ExamQuestion{
			QuestionNumber: q.QuestionNumber,
			Type:           q.Type,
			Text:           q.Text,
			Options:        q.Options,
			CorrectAnswer:  q.CorrectAnswer,
			Points:         points,
		})
	}

	if err := s.examRepo.Create(&exam); err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("CreateExam: failed to persist exam")
		return nil, fmt.Errorf("creating exam: %w", err)
	}

	var resp dto.ExamResponseDTO
	if err := copier.Copy(&resp, &exam); err != nil {
		return nil, fmt.Errorf("preparing exam response: %w", err)
	}
	resp.Status = string(exam.Status)
	log.Info().Uint("examID", exam.ID).Str("title", exam.Title).Int("questions", len(exam.Questions)).Msg("Exam created")
	return &resp, nil
}

// ListExams is the admin listing. Statuses are derived live, the same as the
// student listing, so the console never shows a stale sweep result.
func (s *adminExamService) ListExams(grade int) ([]dto.ExamSummaryDTO, error) {
	examsWithCount, err := s.examRepo.FindByGradeWithQuestionCount(grade)
	if err != nil {
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

// Question numbers must be 1-based and contiguous within the exam.
func validateQuestionNumbers(questions []dto.QuestionCreateDTO) error {
	seen := make(map[int]bool, len(questions))
	for _, q := range questions {
		if seen[q.QuestionNumber] {
			return fmt.Errorf("duplicate question_number %d", q.QuestionNumber)
		}
		seen[q.QuestionNumber] = true
	}
	for n := 1; n <= len(questions); n++ {
		if !seen[n] {
			return fmt.Errorf("question numbers must be contiguous from 1: missing %d", n)
		}
	}
	return nil
}

func (s *adminExamService) SetExamActive(examID uint, active bool) error {
	if _, err := s.examRepo.FindByID(examID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("exam %d: %w", examID, ErrExamNotFound)
		}
		return fmt.Errorf("loading exam %d: %w", examID, err)
	}
	if err := s.examRepo.SetActive(examID, active); err != nil {
		return fmt.Errorf("updating exam %d kill switch: %w", examID, err)
	}
	log.Info().Uint("examID", examID).Bool("isActive", active).Msg("Exam kill switch updated")
	return nil
}

func (s *adminExamService) CreateAnswerKeyEntry(req dto.AnswerKeyEntryCreateDTO) (*model.AnswerKeyEntry, error) {
	entry := model.AnswerKeyEntry{
		ExamDate:      req.ExamDate,
		Grade:         req.Grade,
		SubjectType:   req.SubjectType,
		SelectionType: req.SelectionType,
		QuestionNo:    req.QuestionNo,
		CorrectAnswer: req.CorrectAnswer,
		Weight:        req.Weight,
	}
	if entry.Weight <= 0 {
		entry.Weight = 1
	}
	if err := s.answerKeyRepo.Create(&entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("answer key for %s grade %d %s/%s q%d already exists: %w",
				req.ExamDate, req.Grade, req.SubjectType, req.SelectionType, req.QuestionNo, ErrDuplicateKeyEntry)
		}
		return nil, fmt.Errorf("creating answer key entry: %w", err)
	}
	return &entry, nil
}
