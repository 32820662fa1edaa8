package repository

import (
	"github.com/hanbyul-kim/examhall/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScoringResultRepository interface {
	Upsert(results []model.ScoringResult) error
	FindByStudent(studentID string) ([]model.ScoringResult, error)
	FindByScope(scope AnswerScope) ([]model.ScoringResult, error)
	MeanScore(scope *AnswerScope) (float64, int64, error)
}

type scoringResultRepository struct {
	db *gorm.DB
}

func NewScoringResultRepository(db *gorm.DB) ScoringResultRepository {
	return &scoringResultRepository{db: db}
}

// Upsert writes results keyed by (student, exam_date, grade, subject_type,
// selection_type, question_no). Re-scoring after a key correction overwrites
// the existing row; it never appends a duplicate.
func (r *scoringResultRepository) Upsert(results []model.ScoringResult) error {
	if len(results) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "student_id"},
			{Name: "exam_date"},
			{Name: "grade"},
			{Name: "subject_type"},
			{Name: "selection_type"},
			{Name: "question_no"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"correct_answer", "student_answer", "is_correct", "score", "updated_at"}),
	}).Create(&results).Error
}

func (r *scoringResultRepository) FindByStudent(studentID string) ([]model.ScoringResult, error) {
	var results []model.ScoringResult
	err := r.db.Where("student_id = ?", studentID).
		Order("exam_date DESC, question_no ASC").
		Find(&results).Error
	return results, err
}

func (r *scoringResultRepository) FindByScope(scope AnswerScope) ([]model.ScoringResult, error) {
	var results []model.ScoringResult
	query := r.db.Where("exam_date = ? AND grade = ?", scope.ExamDate, scope.Grade)
	if scope.SubjectType != "" {
		query = query.Where("subject_type = ?", scope.SubjectType)
	}
	err := query.Order("student_id ASC, question_no ASC").Find(&results).Error
	return results, err
}

// MeanScore averages ScoringResult.score over the scope (nil means all rows).
// The mean is per result row; exams with more questions are not reweighted.
func (r *scoringResultRepository) MeanScore(scope *AnswerScope) (float64, int64, error) {
	type row struct {
		Mean  float64
		Total int64
	}
	var out row
	query := r.db.Model(&model.ScoringResult{}).
		Select("COALESCE(AVG(score), 0) as mean, COUNT(*) as total")
	if scope != nil {
		query = query.Where("exam_date = ? AND grade = ?", scope.ExamDate, scope.Grade)
		if scope.SubjectType != "" {
			query = query.Where("subject_type = ?", scope.SubjectType)
		}
	}
	err := query.Scan(&out).Error
	return out.Mean, out.Total, err
}
