package repository

import (
	"testing"

	"github.com/hanbyul-kim/examhall/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.ScoringResult{}))
	return db
}

func result(studentID, examDate string, questionNo int, answer string, correct bool, score int) model.ScoringResult {
	return model.ScoringResult{
		StudentID: studentID, ExamDate: examDate, Grade: 9, SubjectType: "math",
		SelectionType: "objective", QuestionNo: questionNo,
		CorrectAnswer: "A", StudentAnswer: answer, IsCorrect: correct, Score: score,
	}
}

func TestUpsertOverwritesOnKey(t *testing.T) {
	db := newTestDB(t)
	repo := NewScoringResultRepository(db)

	require.NoError(t, repo.Upsert([]model.ScoringResult{
		result("s1", "2025-03-10", 1, "B", false, 0),
	}))

	// Same (student, assessment key, question): the row is replaced.
	require.NoError(t, repo.Upsert([]model.ScoringResult{
		result("s1", "2025-03-10", 1, "A", true, 1),
	}))

	rows, err := repo.FindByStudent("s1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsCorrect)
	assert.Equal(t, 1, rows[0].Score)
	assert.Equal(t, "A", rows[0].StudentAnswer)

	// A different question number is a new row.
	require.NoError(t, repo.Upsert([]model.ScoringResult{
		result("s1", "2025-03-10", 2, "A", true, 2),
	}))
	rows, err = repo.FindByStudent("s1")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestMeanScore(t *testing.T) {
	db := newTestDB(t)
	repo := NewScoringResultRepository(db)

	require.NoError(t, repo.Upsert([]model.ScoringResult{
		result("s1", "2025-03-10", 1, "A", true, 1),
		result("s1", "2025-03-10", 2, "A", true, 2),
		result("s2", "2025-03-10", 1, "B", false, 0),
	}))
	require.NoError(t, repo.Upsert([]model.ScoringResult{
		{StudentID: "s1", ExamDate: "2025-04-02", Grade: 10, SubjectType: "science",
			SelectionType: "objective", QuestionNo: 1,
			CorrectAnswer: "C", StudentAnswer: "C", IsCorrect: true, Score: 3},
	}))

	mean, total, err := repo.MeanScore(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.InDelta(t, 1.5, mean, 1e-9) // (1+2+0+3)/4

	mean, total, err = repo.MeanScore(&AnswerScope{ExamDate: "2025-03-10", Grade: 9})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.InDelta(t, 1.0, mean, 1e-9)

	mean, total, err = repo.MeanScore(&AnswerScope{ExamDate: "2099-01-01", Grade: 1})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Zero(t, mean)
}
