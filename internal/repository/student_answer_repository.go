package repository

import (
	"github.com/hanbyul-kim/examhall/internal/model"
	"gorm.io/gorm"
)

// AnswerScope identifies one legacy assessment: every StudentAnswer and
// AnswerKeyEntry sharing these three fields belongs to the same grading run.
type AnswerScope struct {
	ExamDate    string
	Grade       int
	SubjectType string
}

type StudentAnswerRepository interface {
	Create(answer *model.StudentAnswer) error
	FindByScope(scope AnswerScope) ([]model.StudentAnswer, error)
	DistinctScopes() ([]AnswerScope, error)
	Count() (int64, error)
}

type studentAnswerRepository struct {
	db *gorm.DB
}

func NewStudentAnswerRepository(db *gorm.DB) StudentAnswerRepository {
	return &studentAnswerRepository{db: db}
}

func (r *studentAnswerRepository) Create(answer *model.StudentAnswer) error {
	return r.db.Create(answer).Error
}

func (r *studentAnswerRepository) FindByScope(scope AnswerScope) ([]model.StudentAnswer, error) {
	var answers []model.StudentAnswer
	query := r.db.Where("exam_date = ? AND grade = ?", scope.ExamDate, scope.Grade)
	if scope.SubjectType != "" {
		query = query.Where("subject_type = ?", scope.SubjectType)
	}
	err := query.Order("student_id ASC, question_no ASC").Find(&answers).Error
	return answers, err
}

func (r *studentAnswerRepository) DistinctScopes() ([]AnswerScope, error) {
	var scopes []AnswerScope
	err := r.db.Model(&model.StudentAnswer{}).
		Select("DISTINCT exam_date, grade, subject_type").
		Order("exam_date ASC").
		Scan(&scopes).Error
	return scopes, err
}

func (r *studentAnswerRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.StudentAnswer{}).Count(&count).Error
	return count, err
}
