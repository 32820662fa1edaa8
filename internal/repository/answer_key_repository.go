package repository

import (
	"github.com/hanbyul-kim/examhall/internal/model"
	"gorm.io/gorm"
)

type AnswerKeyRepository interface {
	Create(entry *model.AnswerKeyEntry) error
	FindByScope(examDate string, grade int, subjectType string) ([]model.AnswerKeyEntry, error)
	CountDistinctAssessments() (int64, error)
}

type answerKeyRepository struct {
	db *gorm.DB
}

func NewAnswerKeyRepository(db *gorm.DB) AnswerKeyRepository {
	return &answerKeyRepository{db: db}
}

func (r *answerKeyRepository) Create(entry *model.AnswerKeyEntry) error {
	return r.db.Create(entry).Error
}

func (r *answerKeyRepository) FindByScope(examDate string, grade int, subjectType string) ([]model.AnswerKeyEntry, error) {
	var entries []model.AnswerKeyEntry
	query := r.db.Where("exam_date = ? AND grade = ?", examDate, grade)
	if subjectType != "" {
		query = query.Where("subject_type = ?", subjectType)
	}
	err := query.Order("question_no ASC").Find(&entries).Error
	return entries, err
}

// CountDistinctAssessments counts exam dates holding at least one key entry;
// this backs the total_exams stat.
func (r *answerKeyRepository) CountDistinctAssessments() (int64, error) {
	var count int64
	err := r.db.Model(&model.AnswerKeyEntry{}).
		Distinct("exam_date").
		Count(&count).Error
	return count, err
}
