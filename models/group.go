package models

import (
	"time"

	"github.com/google/uuid"
)

// Group is a section of a course taught in a given semester
type Group struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CourseID  uuid.UUID  `json:"course_id" db:"course_id"`
	Name      string     `json:"name" db:"name"`
	Semester  string     `json:"semester" db:"semester"`
	TeacherID *uuid.UUID `json:"teacher_id,omitempty" db:"teacher_id"`
	Capacity  int        `json:"capacity" db:"capacity"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Group model
func (Group) TableName() string {
	return "course_groups"
}

// NewGroup creates a new Group instance
func NewGroup(courseID uuid.UUID, name, semester string, capacity int) *Group {
	now := time.Now()
	return &Group{
		ID:        uuid.New(),
		CourseID:  courseID,
		Name:      name,
		Semester:  semester,
		Capacity:  capacity,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithTeacher assigns the group's teacher
func (g *Group) WithTeacher(teacherID uuid.UUID) *Group {
	g.TeacherID = &teacherID
	return g
}

// IsTaughtBy reports whether userID is the group's teacher
func (g *Group) IsTaughtBy(userID uuid.UUID) bool {
	return g.TeacherID != nil && *g.TeacherID == userID
}
