package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/upb/student-registration/auth"
	"github.com/upb/student-registration/models"
)

// UserResponse is the public view of a user account
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// CourseResponse is the public view of a course
type CourseResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Credits     int       `json:"credits"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GroupResponse is the public view of a course group
type GroupResponse struct {
	ID        uuid.UUID  `json:"id"`
	CourseID  uuid.UUID  `json:"course_id"`
	Name      string     `json:"name"`
	Semester  string     `json:"semester"`
	TeacherID *uuid.UUID `json:"teacher_id,omitempty"`
	Capacity  int        `json:"capacity"`
}

// EnrollmentResponse is the public view of an enrollment
type EnrollmentResponse struct {
	ID         uuid.UUID `json:"id"`
	GroupID    uuid.UUID `json:"group_id"`
	StudentID  uuid.UUID `json:"student_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// MeetingResponse is the public view of a meeting
type MeetingResponse struct {
	ID       uuid.UUID `json:"id"`
	GroupID  uuid.UUID `json:"group_id"`
	Topic    string    `json:"topic"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Room     string    `json:"room"`
}

// AttendanceResponse is the public view of an attendance record
type AttendanceResponse struct {
	ID         uuid.UUID `json:"id"`
	MeetingID  uuid.UUID `json:"meeting_id"`
	StudentID  uuid.UUID `json:"student_id"`
	Status     string    `json:"status"`
	RecordedAt time.Time `json:"recorded_at"`
}

// GradeResponse is the public view of a grade
type GradeResponse struct {
	ID           uuid.UUID `json:"id"`
	EnrollmentID uuid.UUID `json:"enrollment_id"`
	Value        float64   `json:"value"`
	Description  string    `json:"description"`
	GradedAt     time.Time `json:"graded_at"`
	GradedBy     uuid.UUID `json:"graded_by"`
}

// ActivityResponse is one entry of a user's activity history
type ActivityResponse struct {
	ID           uuid.UUID       `json:"id"`
	Action       string          `json:"action"`
	ResourceType string          `json:"resource_type"`
	ResourceID   *uuid.UUID      `json:"resource_id,omitempty"`
	Details      json.RawMessage `json:"details,omitempty"`
	IPAddress    string          `json:"ip_address,omitempty"`
	RequestID    string          `json:"request_id,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
}

// LoginResponse is the body of a successful POST /auth/login. The token
// itself only travels in the session cookie.
type LoginResponse struct {
	User      UserResponse `json:"user"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// PrincipalResponse describes the caller of GET /auth/me
type PrincipalResponse struct {
	Identifier string    `json:"identifier"`
	UserID     uuid.UUID `json:"user_id"`
	Roles      []string  `json:"roles"`
}

// FromUser maps a user. The password hash is never mapped.
func FromUser(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func FromCourse(c *models.Course) CourseResponse {
	return CourseResponse{
		ID:          c.ID,
		Code:        c.Code,
		Name:        c.Name,
		Description: c.Description,
		Credits:     c.Credits,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromGroup(g *models.Group) GroupResponse {
	return GroupResponse{
		ID:        g.ID,
		CourseID:  g.CourseID,
		Name:      g.Name,
		Semester:  g.Semester,
		TeacherID: g.TeacherID,
		Capacity:  g.Capacity,
	}
}

func FromEnrollment(e *models.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:         e.ID,
		GroupID:    e.GroupID,
		StudentID:  e.StudentID,
		EnrolledAt: e.EnrolledAt,
	}
}

func FromMeeting(m *models.Meeting) MeetingResponse {
	return MeetingResponse{
		ID:       m.ID,
		GroupID:  m.GroupID,
		Topic:    m.Topic,
		StartsAt: m.StartsAt,
		EndsAt:   m.EndsAt,
		Room:     m.Room,
	}
}

func FromAttendance(a *models.Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:         a.ID,
		MeetingID:  a.MeetingID,
		StudentID:  a.StudentID,
		Status:     string(a.Status),
		RecordedAt: a.RecordedAt,
	}
}

func FromGrade(g *models.Grade) GradeResponse {
	return GradeResponse{
		ID:           g.ID,
		EnrollmentID: g.EnrollmentID,
		Value:        g.Value,
		Description:  g.Description,
		GradedAt:     g.GradedAt,
		GradedBy:     g.GradedBy,
	}
}

func FromActivity(a *models.ActivityLog) ActivityResponse {
	return ActivityResponse{
		ID:           a.ID,
		Action:       string(a.Action),
		ResourceType: a.ResourceType,
		ResourceID:   a.ResourceID,
		Details:      a.Details,
		IPAddress:    a.IPAddress,
		RequestID:    a.RequestID,
		Timestamp:    a.Timestamp,
	}
}

// FromPrincipal maps the authenticated principal. Roles is never null in JSON.
func FromPrincipal(p *auth.Principal) PrincipalResponse {
	roles := p.Roles
	if roles == nil {
		roles = []string{}
	}
	return PrincipalResponse{
		Identifier: p.Identifier,
		UserID:     p.UserID,
		Roles:      roles,
	}
}

// MapSlice maps every element of in with fn. A nil input yields an empty, non-nil slice.
func MapSlice[M any, R any](in []*M, fn func(*M) R) []R {
	out := make([]R, 0, len(in))
	for _, m := range in {
		out = append(out, fn(m))
	}
	return out
}
