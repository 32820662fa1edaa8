package service

import (
	"testing"
	"time"

	"github.com/hanbyul-kim/examhall/internal/model"
	"github.com/hanbyul-kim/examhall/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAnswersMatch(t *testing.T) {
	tests := []struct {
		name    string
		student string
		correct string
		want    bool
	}{
		{name: "exact", student: "B", correct: "B", want: true},
		{name: "case insensitive", student: "b", correct: "B", want: true},
		{name: "surrounding whitespace trimmed", student: " B ", correct: "B", want: true},
		{name: "both sides trimmed and folded", student: " true", correct: "TRUE ", want: true},
		{name: "no numeric tolerance", student: "8", correct: "8.0", want: false},
		{name: "substring is not a match", student: "B", correct: "BB", want: false},
		{name: "unanswered", student: "", correct: "A", want: false},
		{name: "interior whitespace significant", student: "New York", correct: "NewYork", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AnswersMatch(tc.student, tc.correct))
		})
	}
}

func newScoringFixture(t *testing.T) (*gorm.DB, ScoringService) {
	t.Helper()
	db := newTestDB(t)
	svc := NewScoringService(
		repository.NewAnswerKeyRepository(db),
		repository.NewStudentAnswerRepository(db),
		repository.NewScoringResultRepository(db),
	)
	return db, svc
}

func TestScoreFinalizedSet(t *testing.T) {
	db, svc := newScoringFixture(t)

	// One-hour window, 45-minute attempt, weights 1/1/2.
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	exam := newTestExam(start, start.Add(time.Hour), 45)
	require.NoError(t, repository.NewExamRepository(db).Create(exam))

	set := &FinalizedAnswerSet{
		SessionID:   "sess-1",
		ExamID:      exam.ID,
		StudentID:   "s1",
		SubmittedAt: start.Add(20 * time.Minute),
		Answers:     map[int]string{1: "A", 2: "D", 3: "C"},
	}

	score, err := svc.ScoreFinalizedSet(set, exam)
	require.NoError(t, err)
	assert.Equal(t, 3, score.TotalScore)
	assert.Equal(t, 4, score.MaxScore)
	assert.InDelta(t, 75.0, score.Percentage, 1e-9)
	require.Len(t, score.Results, 3)
	assert.True(t, score.Results[0].IsCorrect)
	assert.False(t, score.Results[1].IsCorrect)
	assert.True(t, score.Results[2].IsCorrect)

	// Rows are keyed by the exam's start date.
	results, err := repository.NewScoringResultRepository(db).FindByStudent("s1")
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, "2025-03-10", r.ExamDate)
		assert.Equal(t, exam.Subject, r.SubjectType)
	}
}

func TestScoreFinalizedSetRescoreOverwrites(t *testing.T) {
	db, svc := newScoringFixture(t)
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	exam := newTestExam(start, start.Add(time.Hour), 45)
	require.NoError(t, repository.NewExamRepository(db).Create(exam))

	set := &FinalizedAnswerSet{SessionID: "sess-1", ExamID: exam.ID, StudentID: "s1",
		Answers: map[int]string{1: "D", 2: "D", 3: "D"}}
	_, err := svc.ScoreFinalizedSet(set, exam)
	require.NoError(t, err)

	// The question text was wrong; the corrected key makes Q1 right. A
	// re-score must overwrite the three rows, not append three more.
	exam.Questions[0].CorrectAnswer = "D"
	score, err := svc.ScoreFinalizedSet(set, exam)
	require.NoError(t, err)
	assert.Equal(t, 1, score.TotalScore)

	results, err := repository.NewScoringResultRepository(db).FindByStudent("s1")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.True(t, results[0].IsCorrect)
	assert.Equal(t, "D", results[0].CorrectAnswer)
}

func seedKeyEntry(t *testing.T, db *gorm.DB, selType string, questionNo int, correct string, weight int) {
	t.Helper()
	require.NoError(t, db.Create(&model.AnswerKeyEntry{
		ExamDate: "2025-03-10", Grade: 9, SubjectType: "math",
		SelectionType: selType, QuestionNo: questionNo,
		CorrectAnswer: correct, Weight: weight,
	}).Error)
}

func seedStudentAnswer(t *testing.T, db *gorm.DB, studentID, selType string, questionNo int, answer string) {
	t.Helper()
	require.NoError(t, db.Create(&model.StudentAnswer{
		StudentID: studentID, ExamDate: "2025-03-10", Grade: 9, SubjectType: "math",
		SelectionType: selType, QuestionNo: questionNo, Answer: answer,
	}).Error)
}

func TestScoreScope(t *testing.T) {
	db, svc := newScoringFixture(t)

	seedKeyEntry(t, db, "objective", 1, "A", 1)
	seedKeyEntry(t, db, "objective", 2, "B", 2)

	// Duplicate key rows predate the unique index in legacy data; drop the
	// index so the conflict path is reachable.
	require.NoError(t, db.Exec("DROP INDEX idx_answer_key").Error)
	seedKeyEntry(t, db, "objective", 3, "C", 1)
	seedKeyEntry(t, db, "objective", 3, "D", 1)

	seedStudentAnswer(t, db, "s1", "objective", 1, "a")   // correct after folding
	seedStudentAnswer(t, db, "s1", "objective", 2, " b ") // correct after trimming
	seedStudentAnswer(t, db, "s1", "objective", 3, "C")   // blocked by key conflict
	seedStudentAnswer(t, db, "s1", "objective", 4, "D")   // no key entry
	seedStudentAnswer(t, db, "s2", "objective", 2, "C")   // wrong

	summary, err := svc.ScoreScope(repository.AnswerScope{ExamDate: "2025-03-10", Grade: 9, SubjectType: "math"})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Graded)
	assert.Equal(t, 1, summary.Unmatched)
	assert.Equal(t, 1, summary.KeyConflicts)
	assert.Equal(t, 0, summary.Failed)
	assert.InDelta(t, 1.0, summary.MeanScore, 1e-9) // (1 + 2 + 0) / 3

	// Unmatched and conflicted answers never produce result rows.
	scope := repository.AnswerScope{ExamDate: "2025-03-10", Grade: 9}
	results, err := repository.NewScoringResultRepository(db).FindByScope(scope)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestScoreScopeReRunIsIdempotent(t *testing.T) {
	db, svc := newScoringFixture(t)
	seedKeyEntry(t, db, "objective", 1, "A", 1)
	seedStudentAnswer(t, db, "s1", "objective", 1, "A")

	scope := repository.AnswerScope{ExamDate: "2025-03-10", Grade: 9, SubjectType: "math"}
	first, err := svc.ScoreScope(scope)
	require.NoError(t, err)
	second, err := svc.ScoreScope(scope)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	results, err := repository.NewScoringResultRepository(db).FindByScope(scope)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestRunBatchGradingAllScopes(t *testing.T) {
	db, svc := newScoringFixture(t)

	seedKeyEntry(t, db, "objective", 1, "A", 1)
	require.NoError(t, db.Create(&model.AnswerKeyEntry{
		ExamDate: "2025-04-02", Grade: 10, SubjectType: "science",
		SelectionType: "objective", QuestionNo: 1, CorrectAnswer: "B", Weight: 3,
	}).Error)

	seedStudentAnswer(t, db, "s1", "objective", 1, "A")
	require.NoError(t, db.Create(&model.StudentAnswer{
		StudentID: "s2", ExamDate: "2025-04-02", Grade: 10, SubjectType: "science",
		SelectionType: "objective", QuestionNo: 1, Answer: "B",
	}).Error)

	summary, err := svc.RunBatchGrading(nil)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Graded)
	assert.Equal(t, 0, summary.Unmatched)
	assert.InDelta(t, 2.0, summary.MeanScore, 1e-9) // (1 + 3) / 2

	// Narrowed to one scope, only that scope's submissions are graded.
	scoped, err := svc.RunBatchGrading(&repository.AnswerScope{ExamDate: "2025-03-10", Grade: 9, SubjectType: "math"})
	require.NoError(t, err)
	assert.Equal(t, 1, scoped.Graded)
}
