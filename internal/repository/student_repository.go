package repository

import (
	"github.com/hanbyul-kim/examhall/internal/model"
	"gorm.io/gorm"
)

type StudentRepository interface {
	Create(student *model.Student) error
	FindByID(id string) (*model.Student, error)
	Count() (int64, error)
}

type studentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(student *model.Student) error {
	return r.db.Create(student).Error
}

func (r *studentRepository) FindByID(id string) (*model.Student, error) {
	var student model.Student
	err := r.db.Where("id = ?", id).First(&student).Error
	return &student, err
}

func (r *studentRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Student{}).Count(&count).Error
	return count, err
}
