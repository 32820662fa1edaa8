package service

import (
	"fmt"
	"strings"

	"github.com/hanbyul-kim/examhall/internal/dto"
	"github.com/hanbyul-kim/examhall/internal/model"
	"github.com/hanbyul-kim/examhall/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

// AnswersMatch is the single comparison rule for both grading paths:
// case-insensitive exact equality after trimming. No partial credit and no
// numeric tolerance, so "8" and "8.0" do not match.
func AnswersMatch(studentAnswer, correctAnswer string) bool {
	return strings.EqualFold(strings.TrimSpace(studentAnswer), strings.TrimSpace(correctAnswer))
}

// ScoringService grades finalized session answer sets and legacy
// per-question submissions against their authoritative keys.
type ScoringService interface {
	ScoreFinalizedSet(set *FinalizedAnswerSet, exam *model.Exam) (*dto.SubmissionScoreDTO, error)
	ScoreScope(scope repository.AnswerScope) (*dto.GradingSummaryDTO, error)
	RunBatchGrading(scope *repository.AnswerScope) (*dto.GradingSummaryDTO, error)
}

type scoringService struct {
	answerKeyRepo     repository.AnswerKeyRepository
	studentAnswerRepo repository.StudentAnswerRepository
	scoringRepo       repository.ScoringResultRepository
}

func NewScoringService(
	answerKeyRepo repository.AnswerKeyRepository,
	studentAnswerRepo repository.StudentAnswerRepository,
	scoringRepo repository.ScoringResultRepository,
) ScoringService {
	return &scoringService{
		answerKeyRepo:     answerKeyRepo,
		studentAnswerRepo: studentAnswerRepo,
		scoringRepo:       scoringRepo,
	}
}

// ScoreFinalizedSet grades a session's emitted answers against the exam's
// own question list. Results are upserted, so re-scoring after an authoring
// correction overwrites instead of duplicating.
func (s *scoringService) ScoreFinalizedSet(set *FinalizedAnswerSet, exam *model.Exam) (*dto.SubmissionScoreDTO, error) {
	if len(exam.Questions) == 0 {
		return nil, fmt.Errorf("exam %d has no questions to score", exam.ID)
	}

	examDate := exam.StartTime.Format("2006-01-02")
	results := make([]model.ScoringResult, 0, len(exam.Questions))
	totalScore, maxScore := 0, 0

	for _, q := range exam.Questions {
		answer := set.Answers[q.QuestionNumber]
		isCorrect := AnswersMatch(answer, q.CorrectAnswer)
		score := 0
		if isCorrect {
			score = q.Weight()
		}
		totalScore += score
		maxScore += q.Weight()

		results = append(results, model.ScoringResult{
			StudentID:     set.StudentID,
			ExamDate:      examDate,
			Grade:         exam.Grade,
			SubjectType:   exam.Subject,
			SelectionType: q.Type,
			QuestionNo:    q.QuestionNumber,
			CorrectAnswer: q.CorrectAnswer,
			StudentAnswer: answer,
			IsCorrect:     isCorrect,
			Score:         score,
		})
	}

	if err := s.scoringRepo.Upsert(results); err != nil {
		return nil, fmt.Errorf("persisting scoring results for session %s: %w", set.SessionID, err)
	}

	resp := &dto.SubmissionScoreDTO{
		ExamID:     exam.ID,
		StudentID:  set.StudentID,
		TotalScore: totalScore,
		MaxScore:   maxScore,
	}
	if maxScore > 0 {
		resp.Percentage = 100 * float64(totalScore) / float64(maxScore)
	}
	resp.Results = make([]dto.ScoringResultDTO, len(results))
	for i := range results {
		if err := copier.Copy(&resp.Results[i], &results[i]); err != nil {
			return nil, fmt.Errorf("preparing scoring response: %w", err)
		}
	}

	log.Info().Uint("examID", exam.ID).Str("studentID", set.StudentID).
		Int("totalScore", totalScore).Int("maxScore", maxScore).
		Msg("Finalized session scored")
	return resp, nil
}

// ScoreScope runs the legacy key-matched path over one (exam_date, grade,
// subject) scope. Answers with no key entry are excluded by policy, not
// error; they surface only in the summary's unmatched tally. Keys that occur
// more than once block scoring for exactly the answers joining them.
func (s *scoringService) ScoreScope(scope repository.AnswerScope) (*dto.GradingSummaryDTO, error) {
	entries, err := s.answerKeyRepo.FindByScope(scope.ExamDate, scope.Grade, scope.SubjectType)
	if err != nil {
		return nil, fmt.Errorf("loading answer key for %s grade %d: %w", scope.ExamDate, scope.Grade, err)
	}

	keyMap := make(map[model.AssessmentKey]model.AnswerKeyEntry, len(entries))
	conflicts := make(map[model.AssessmentKey]bool)
	for _, e := range entries {
		k := e.Key()
		if _, seen := keyMap[k]; seen {
			conflicts[k] = true
			log.Error().Str("examDate", e.ExamDate).Int("grade", e.Grade).
				Str("subjectType", e.SubjectType).Str("selectionType", e.SelectionType).
				Int("questionNo", e.QuestionNo).
				Msg("Duplicate answer key entry, scoring blocked for this key")
			continue
		}
		keyMap[k] = e
	}

	answers, err := s.studentAnswerRepo.FindByScope(scope)
	if err != nil {
		return nil, fmt.Errorf("loading student answers for %s grade %d: %w", scope.ExamDate, scope.Grade, err)
	}

	summary := &dto.GradingSummaryDTO{}
	scoreSum := 0
	for _, a := range answers {
		k := a.Key()
		if conflicts[k] {
			summary.KeyConflicts++
			continue
		}
		entry, ok := keyMap[k]
		if !ok {
			// Only score what the key defines; orphaned submissions stay
			// visible through this count.
			summary.Unmatched++
			continue
		}

		isCorrect := AnswersMatch(a.Answer, entry.CorrectAnswer)
		weight := entry.Weight
		if weight <= 0 {
			weight = 1
		}
		score := 0
		if isCorrect {
			score = weight
		}

		result := model.ScoringResult{
			StudentID:     a.StudentID,
			ExamDate:      a.ExamDate,
			Grade:         a.Grade,
			SubjectType:   a.SubjectType,
			SelectionType: a.SelectionType,
			QuestionNo:    a.QuestionNo,
			CorrectAnswer: entry.CorrectAnswer,
			StudentAnswer: a.Answer,
			IsCorrect:     isCorrect,
			Score:         score,
		}
		// One bad record must not halt the batch; failures are isolated per
		// submission and retried on the next run.
		if err := s.scoringRepo.Upsert([]model.ScoringResult{result}); err != nil {
			summary.Failed++
			log.Error().Err(err).Str("studentID", a.StudentID).Int("questionNo", a.QuestionNo).
				Msg("Failed to persist scoring result")
			continue
		}
		summary.Graded++
		scoreSum += score
	}

	if summary.Graded > 0 {
		summary.MeanScore = float64(scoreSum) / float64(summary.Graded)
	}
	return summary, nil
}

// RunBatchGrading grades every submission in scope (nil means every scope
// that has submissions). Re-running is safe: comparison is pure and
// persistence is an upsert, so already-scored submissions re-derive the
// identical rows.
func (s *scoringService) RunBatchGrading(scope *repository.AnswerScope) (*dto.GradingSummaryDTO, error) {
	scopes := []repository.AnswerScope{}
	if scope != nil {
		scopes = append(scopes, *scope)
	} else {
		all, err := s.studentAnswerRepo.DistinctScopes()
		if err != nil {
			return nil, fmt.Errorf("listing grading scopes: %w", err)
		}
		scopes = all
	}

	total := &dto.GradingSummaryDTO{}
	scoreSum := 0.0
	for _, sc := range scopes {
		summary, err := s.ScoreScope(sc)
		if err != nil {
			// Isolate scope-level failures the same way the sweep isolates
			// per-exam failures.
			log.Error().Err(err).Str("examDate", sc.ExamDate).Int("grade", sc.Grade).
				Str("subjectType", sc.SubjectType).Msg("Batch grading failed for scope")
			continue
		}
		total.Graded += summary.Graded
		total.Unmatched += summary.Unmatched
		total.KeyConflicts += summary.KeyConflicts
		total.Failed += summary.Failed
		scoreSum += summary.MeanScore * float64(summary.Graded)
	}
	if total.Graded > 0 {
		total.MeanScore = scoreSum / float64(total.Graded)
	}

	log.Info().Int("graded", total.Graded).Int("unmatched", total.Unmatched).
		Int("keyConflicts", total.KeyConflicts).Int("failed", total.Failed).
		Float64("meanScore", total.MeanScore).Msg("Batch grading run completed")
	return total, nil
}
