package repository

import (
	"github.com/hanbyul-kim/examhall/internal/model"
	"gorm.io/gorm"
)

type ExamRepository interface {
	Create(exam *model.Exam) error
	FindByID(id uint) (*model.Exam, error)
	FindByIDWithQuestions(id uint) (*model.Exam, error)
	FindAll() ([]model.Exam, error)
	FindByGradeWithQuestionCount(grade int) ([]struct {
		model.Exam
		QuestionCount int
	}, error)
	UpdateStatus(id uint, status model.ExamStatus) error
	SetActive(id uint, active bool) error
}

type examRepository struct {
	db *gorm.DB
}

func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

func (r *examRepository) Create(exam *model.Exam) error {
	// Create with associations persists exam.Questions through the ExamID
	// foreign key in one go.
	return r.db.Create(exam).Error
}

func (r *examRepository) FindByID(id uint) (*model.Exam, error) {
	var exam model.Exam
	err := r.db.First(&exam, id).Error
	return &exam, err
}

func (r *examRepository) FindByIDWithQuestions(id uint) (*model.Exam, error) {
	var exam model.Exam
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("exam_questions.question_number ASC")
	}).First(&exam, id).Error
	return &exam, err
}

func (r *examRepository) FindAll() ([]model.Exam, error) {
	var exams []model.Exam
	err := r.db.Order("start_time ASC").Find(&exams).Error
	return exams, err
}

func (r *examRepository) FindByGradeWithQuestionCount(grade int) ([]struct {
	model.Exam
	QuestionCount int
}, error) {
	var results []struct {
		model.Exam
		QuestionCount int
	}
	query := r.db.Model(&model.Exam{}).
		Select("exams.*, (SELECT COUNT(*) FROM exam_questions WHERE exam_questions.exam_id = exams.id AND exam_questions.deleted_at IS NULL) as question_count").
		Where("exams.deleted_at IS NULL").
		Order("exams.start_time ASC")
	if grade > 0 {
		query = query.Where("exams.grade = ?", grade)
	}
	err := query.Scan(&results).Error
	return results, err
}

func (r *examRepository) UpdateStatus(id uint, status model.ExamStatus) error {
	return r.db.Model(&model.Exam{}).Where("id = ?", id).Update("status", status).Error
}

func (r *examRepository) SetActive(id uint, active bool) error {
	return r.db.Model(&model.Exam{}).Where("id = ?", id).Update("is_active", active).Error
}
