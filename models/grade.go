package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinGradeValue = 2.0
	MaxGradeValue = 5.0
)

// Grade is a mark given for an enrollment
type Grade struct {
	ID           uuid.UUID `json:"id" db:"id"`
	EnrollmentID uuid.UUID `json:"enrollment_id" db:"enrollment_id"`
	Value        float64   `json:"value" db:"value"`
	Description  string    `json:"description" db:"description"`
	GradedAt     time.Time `json:"graded_at" db:"graded_at"`
	GradedBy     uuid.UUID `json:"graded_by" db:"graded_by"`
}

// TableName returns the table name for the Grade model
func (Grade) TableName() string {
	return "grades"
}

// NewGrade creates a new Grade instance
func NewGrade(enrollmentID uuid.UUID, value float64, description string, gradedBy uuid.UUID) *Grade {
	return &Grade{
		ID:           uuid.New(),
		EnrollmentID: enrollmentID,
		Value:        value,
		Description:  description,
		GradedAt:     time.Now(),
		GradedBy:     gradedBy,
	}
}

// ValidGradeValue reports whether v is within the grading scale
func ValidGradeValue(v float64) bool {
	return v >= MinGradeValue && v <= MaxGradeValue
}
