package model

import (
	"time"

	"gorm.io/gorm"
)

// ExamStatus is derived from the schedule window; it is stored for display
// but always recomputable from (StartTime, EndTime, now, IsActive).
type ExamStatus string

const (
	StatusDraft     ExamStatus = "draft"
	StatusScheduled ExamStatus = "scheduled"
	StatusActive    ExamStatus = "active"
	StatusCompleted ExamStatus = "completed"
)

type Exam struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	Title           string         `json:"title" gorm:"not null"`
	Grade           int            `json:"grade" gorm:"not null;index"`
	Subject         string         `json:"subject" gorm:"not null"`
	StartTime       time.Time      `json:"start_time" gorm:"not null"`
	EndTime         time.Time      `json:"end_time" gorm:"not null"`
	DurationMinutes int            `json:"duration_minutes" gorm:"not null"`
	Status          ExamStatus     `json:"status" gorm:"default:'draft'"`
	IsActive        bool           `json:"is_active" gorm:"default:true"` // administrative kill switch, independent of the window
	Questions       []ExamQuestion `json:"questions,omitempty" gorm:"foreignKey:ExamID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
