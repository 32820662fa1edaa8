package service

import (
	"testing"
	"time"

	"github.com/hanbyul-kim/examhall/internal/model"
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

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Exam{},
		&model.ExamQuestion{},
		&model.AnswerKeyEntry{},
		&model.StudentAnswer{},
		&model.ScoringResult{},
		&model.Student{},
	))
	return db
}

func newTestExam(start, end time.Time, durationMinutes int) *model.Exam {
	return &model.Exam{
		Title:           "Midterm Math",
		Grade:           9,
		Subject:         "math",
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: durationMinutes,
		IsActive:        true,
		Questions: []model.ExamQuestion{
			{QuestionNumber: 1, Type: model.QuestionTypeMultipleChoice, Text: "Q1", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "A", Points: 1},
			{QuestionNumber: 2, Type: model.QuestionTypeMultipleChoice, Text: "Q2", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "B", Points: 1},
			{QuestionNumber: 3, Type: model.QuestionTypeMultipleChoice, Text: "Q3", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "C", Points: 2},
		},
	}
}
