package model

import (
	"time"

	"gorm.io/gorm"
)

// Student is a read-mostly roster entry; identity management itself lives
// outside this service.
type Student struct {
	ID        string         `gorm:"primarykey" json:"id"`
	Name      string         `json:"name" gorm:"not null"`
	Grade     int            `json:"grade" gorm:"not null;index"`
	Email     string         `json:"email"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
