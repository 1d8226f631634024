package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinCourseCredits = 1
	MaxCourseCredits = 30
)

// Course is a subject in the catalogue, identified by a unique code
type Course struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Credits     int       `json:"credits" db:"credits"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Course model
func (Course) TableName() string {
	return "courses"
}

// NewCourse creates a new Course instance
func NewCourse(code, name, description string, credits int) *Course {
	now := time.Now()
	return &Course{
		ID:          uuid.New(),
		Code:        code,
		Name:        name,
		Description: description,
		Credits:     credits,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
