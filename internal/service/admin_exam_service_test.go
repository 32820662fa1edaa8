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

func newAdminFixture(t *testing.T) (*gorm.DB, AdminExamService) {
	t.Helper()
	db := newTestDB(t)
	svc := NewAdminExamService(repository.NewExamRepository(db), repository.NewAnswerKeyRepository(db))
	return db, svc
}

func examCreateRequest(start, end time.Time) dto.ExamCreateDTO {
	return dto.ExamCreateDTO{
		Title:           "Midterm Math",
		Grade:           9,
		Subject:         "math",
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: 45,
		Questions: []dto.QuestionCreateDTO{
			{QuestionNumber: 1, Type: model.QuestionTypeMultipleChoice, Text: "Q1", Options: []string{"A", "B"}, CorrectAnswer: "A", Points: 1},
			{QuestionNumber: 2, Type: model.QuestionTypeShortAnswer, Text: "Q2", CorrectAnswer: "Seoul"},
		},
	}
}

func TestCreateExam(t *testing.T) {
	db, svc := newAdminFixture(t)

	start := time.Now().Add(time.Hour)
	resp, err := svc.CreateExam(examCreateRequest(start, start.Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusScheduled), resp.Status)
	require.Len(t, resp.Questions, 2)

	stored, err := repository.NewExamRepository(db).FindByIDWithQuestions(resp.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsActive)
	require.Len(t, stored.Questions, 2)
	assert.Equal(t, 1, stored.Questions[1].Points, "omitted points default to 1")
}

func TestCreateExamValidation(t *testing.T) {
	_, svc := newAdminFixture(t)
	start := time.Now().Add(time.Hour)

	inverted := examCreateRequest(start, start.Add(-time.Hour))
	_, err := svc.CreateExam(inverted)
	assert.ErrorContains(t, err, "end_time must be after start_time")

	gapped := examCreateRequest(start, start.Add(time.Hour))
	gapped.Questions[1].QuestionNumber = 3
	_, err = svc.CreateExam(gapped)
	assert.ErrorContains(t, err, "contiguous")

	duped := examCreateRequest(start, start.Add(time.Hour))
	duped.Questions[1].QuestionNumber = 1
	_, err = svc.CreateExam(duped)
	assert.ErrorContains(t, err, "duplicate question_number")
}

func TestAdminListExams(t *testing.T) {
	db, svc := newAdminFixture(t)
	examRepo := repository.NewExamRepository(db)

	stale := newTestExam(time.Now().Add(-3*time.Hour), time.Now().Add(-2*time.Hour), 45)
	stale.Status = model.StatusActive
	require.NoError(t, examRepo.Create(stale))

	exams, err := svc.ListExams(0)
	require.NoError(t, err)
	require.Len(t, exams, 1)
	assert.Equal(t, string(model.StatusCompleted), exams[0].Status)
	assert.Equal(t, 3, exams[0].QuestionCount)
}

func TestSetExamActive(t *testing.T) {
	db, svc := newAdminFixture(t)
	examRepo := repository.NewExamRepository(db)

	exam := newTestExam(time.Now().Add(-time.Hour), time.Now().Add(time.Hour), 45)
	require.NoError(t, examRepo.Create(exam))

	require.NoError(t, svc.SetExamActive(exam.ID, false))
	stored, err := examRepo.FindByID(exam.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	assert.ErrorIs(t, svc.SetExamActive(9999, false), ErrExamNotFound)
}

func TestCreateAnswerKeyEntry(t *testing.T) {
	_, svc := newAdminFixture(t)

	req := dto.AnswerKeyEntryCreateDTO{
		ExamDate: "2025-03-10", Grade: 9, SubjectType: "math",
		SelectionType: "objective", QuestionNo: 1, CorrectAnswer: "A",
	}
	entry, err := svc.CreateAnswerKeyEntry(req)
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Weight, "omitted weight defaults to 1")

	// Same key again is a conflict, never a merge.
	_, err = svc.CreateAnswerKeyEntry(req)
	assert.ErrorIs(t, err, ErrDuplicateKeyEntry)

	// A different question number under the same scope is fine.
	req.QuestionNo = 2
	req.Weight = 3
	entry, err = svc.CreateAnswerKeyEntry(req)
	require.NoError(t, err)
	assert.Equal(t, 3, entry.Weight)
}
