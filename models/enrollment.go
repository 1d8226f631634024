package models

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment places a student in a group. A student is enrolled in a group at most once.
type Enrollment struct {
	ID         uuid.UUID `json:"id" db:"id"`
	GroupID    uuid.UUID `json:"group_id" db:"group_id"`
	StudentID  uuid.UUID `json:"student_id" db:"student_id"`
	EnrolledAt time.Time `json:"enrolled_at" db:"enrolled_at"`
}

// TableName returns the table name for the Enrollment model
func (Enrollment) TableName() string {
	return "enrollments"
}

// NewEnrollment creates a new Enrollment instance
func NewEnrollment(groupID, studentID uuid.UUID) *Enrollment {
	return &Enrollment{
		ID:         uuid.New(),
		GroupID:    groupID,
		StudentID:  studentID,
		EnrolledAt: time.Now(),
	}
}
