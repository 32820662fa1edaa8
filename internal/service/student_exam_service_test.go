package service

import (
	"testing"
	"time"

	"github.com/hanbyul-kim/examhall/internal/dto"
	"github.com/hanbyul-kim/examhall/internal/model"
	"github.com/hanbyul-kim/examhall/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newStudentFixture(t *testing.T) (*gorm.DB, StudentExamService) {
	t.Helper()
	db := newTestDB(t)
	svc := NewStudentExamService(
		repository.NewExamRepository(db),
		repository.NewStudentAnswerRepository(db),
		repository.NewScoringResultRepository(db),
	)
	return db, svc
}

func TestListExamsDerivesLiveStatus(t *testing.T) {
	db, svc := newStudentFixture(t)
	examRepo := repository.NewExamRepository(db)

	// Stored status is stale on purpose; the listing must not show it.
	ended := newTestExam(time.Now().Add(-3*time.Hour), time.Now().Add(-2*time.Hour), 45)
	ended.Status = model.StatusActive
	require.NoError(t, examRepo.Create(ended))

	running := newTestExam(time.Now().Add(-time.Hour), time.Now().Add(time.Hour), 45)
	running.Grade = 10
	running.Status = model.StatusScheduled
	require.NoError(t, examRepo.Create(running))

	exams, err := svc.ListExams(0)
	require.NoError(t, err)
	require.Len(t, exams, 2)
	assert.Equal(t, string(model.StatusCompleted), exams[0].Status)
	assert.Equal(t, string(model.StatusActive), exams[1].Status)
	assert.Equal(t, 3, exams[0].QuestionCount)

	// Grade filter narrows the listing.
	grade10, err := svc.ListExams(10)
	require.NoError(t, err)
	require.Len(t, grade10, 1)
	assert.Equal(t, running.ID, grade10[0].ID)
}

func TestGetExamDetailsHidesCorrectAnswers(t *testing.T) {
	db, svc := newStudentFixture(t)
	exam := newTestExam(time.Now().Add(-time.Hour), time.Now().Add(time.Hour), 45)
	require.NoError(t, repository.NewExamRepository(db).Create(exam))

	details, err := svc.GetExamDetails(exam.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusActive), details.Status)
	require.Len(t, details.Questions, 3)
	assert.Equal(t, 1, details.Questions[0].QuestionNumber)

	_, err = svc.GetExamDetails(9999)
	assert.ErrorIs(t, err, ErrExamNotFound)
}

func TestSubmitLegacyAnswerAndResults(t *testing.T) {
	db, svc := newStudentFixture(t)

	answer, err := svc.SubmitLegacyAnswer(dto.StudentAnswerSubmitDTO{
		StudentID: "s1", ExamDate: "2025-03-10", Grade: 9, SubjectType: "math",
		SelectionType: "objective", QuestionNo: 1, Answer: "A",
	})
	require.NoError(t, err)
	assert.NotZero(t, answer.ID)

	require.NoError(t, db.Create(&model.ScoringResult{
		StudentID: "s1", ExamDate: "2025-03-10", Grade: 9, SubjectType: "math",
		SelectionType: "objective", QuestionNo: 1,
		CorrectAnswer: "A", StudentAnswer: "A", IsCorrect: true, Score: 1,
	}).Error)

	results, err := svc.GetStudentResults("s1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].IsCorrect)
	assert.Equal(t, 1, results[0].Score)

	none, err := svc.GetStudentResults("unknown")
	require.NoError(t, err)
	assert.Empty(t, none)
}
