package dto

import (
	"time"

	"github.com/google/uuid"
)

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateUserRequest is the body of POST /users
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Role      string `json:"role" validate:"required,oneof=student teacher admin"`
}

// CourseRequest is the body of POST /courses and PUT /courses/{id}
type CourseRequest struct {
	Code        string `json:"code" validate:"required,max=20"`
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
	Credits     int    `json:"credits" validate:"required,min=1,max=30"`
}

// GroupRequest is the body of POST /courses/{courseID}/groups and PUT /groups/{id}
type GroupRequest struct {
	Name      string     `json:"name" validate:"required,max=100"`
	Semester  string     `json:"semester" validate:"required,max=20"`
	TeacherID *uuid.UUID `json:"teacher_id"`
	Capacity  int        `json:"capacity" validate:"required,gt=0"`
}

// EnrollRequest is the body of POST /groups/{id}/enrollments.
// StudentID may be omitted when students enroll themselves.
type EnrollRequest struct {
	StudentID *uuid.UUID `json:"student_id"`
}

// MeetingRequest is the body of POST /groups/{id}/meetings and PUT /meetings/{id}
type MeetingRequest struct {
	Topic    string    `json:"topic" validate:"required,max=255"`
	StartsAt time.Time `json:"starts_at" validate:"required"`
	EndsAt   time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	Room     string    `json:"room" validate:"max=50"`
}

// AttendanceEntry is one line of an attendance sheet
type AttendanceEntry struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Status    string    `json:"status" validate:"required,oneof=present absent late excused"`
}

// RecordAttendanceRequest is the body of PUT /meetings/{id}/attendance
type RecordAttendanceRequest struct {
	Entries []AttendanceEntry `json:"entries" validate:"required,min=1,dive"`
}

// GradeRequest is the body of POST /enrollments/{id}/grades and PUT /grades/{id}
type GradeRequest struct {
	Value       float64 `json:"value" validate:"required,gte=2,lte=5"`
	Description string  `json:"description" validate:"max=255"`
}
