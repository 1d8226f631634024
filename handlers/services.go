package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/upb/student-registration/auth"
	"github.com/upb/student-registration/dto"
	"github.com/upb/student-registration/models"
	"github.com/upb/student-registration/services"
)

// The interfaces below are the slices of the services package each handler
// depends on. The concrete services in app.Dependencies satisfy them.

// Authenticator signs users in and out and creates accounts
type Authenticator interface {
	Login(ctx context.Context, email, password, ip string) (*services.LoginResult, error)
	Logout(ctx context.Context, actor *auth.Principal)
	Register(ctx context.Context, actor *auth.Principal, req dto.CreateUserRequest) (*models.User, error)
}

// UserDirectory reads and removes accounts
type UserDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Delete(ctx context.Context, actor *auth.Principal, id uuid.UUID) error
	ListActivity(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.ActivityLog, error)
}

// CourseCatalog manages courses
type CourseCatalog interface {
	Create(ctx context.Context, actor *auth.Principal, req dto.CourseRequest) (*models.Course, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Course, error)
	List(ctx context.Context, limit, offset int) ([]*models.Course, error)
	Update(ctx context.Context, actor *auth.Principal, id uuid.UUID, req dto.CourseRequest) (*models.Course, error)
	Delete(ctx context.Context, actor *auth.Principal, id uuid.UUID) error
}

// GroupManager manages course groups
type GroupManager interface {
	Create(ctx context.Context, actor *auth.Principal, courseID uuid.UUID, req dto.GroupRequest) (*models.Group, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Group, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*models.Group, error)
	Update(ctx context.Context, actor *auth.Principal, id uuid.UUID, req dto.GroupRequest) (*models.Group, error)
	Delete(ctx context.Context, actor *auth.Principal, id uuid.UUID) error
}

// EnrollmentManager places students in groups
type EnrollmentManager interface {
	Enroll(ctx context.Context, actor *auth.Principal, groupID uuid.UUID, req dto.EnrollRequest) (*models.Enrollment, error)
	Withdraw(ctx context.Context, actor *auth.Principal, enrollmentID uuid.UUID) error
	ListByGroup(ctx context.Context, actor *auth.Principal, groupID uuid.UUID) ([]*models.Enrollment, error)
	ListMine(ctx context.Context, actor *auth.Principal) ([]*models.Enrollment, error)
}

// MeetingScheduler manages group meetings
type MeetingScheduler interface {
	Create(ctx context.Context, actor *auth.Principal, groupID uuid.UUID, req dto.MeetingRequest) (*models.Meeting, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Meeting, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*models.Meeting, error)
	Update(ctx context.Context, actor *auth.Principal, id uuid.UUID, req dto.MeetingRequest) (*models.Meeting, error)
	Delete(ctx context.Context, actor *auth.Principal, id uuid.UUID) error
}

// AttendanceKeeper keeps attendance sheets
type AttendanceKeeper interface {
	Record(ctx context.Context, actor *auth.Principal, meetingID uuid.UUID, req dto.RecordAttendanceRequest) ([]*models.Attendance, error)
	ListByMeeting(ctx context.Context, actor *auth.Principal, meetingID uuid.UUID) ([]*models.Attendance, error)
	ListMine(ctx context.Context, actor *auth.Principal) ([]*models.Attendance, error)
}

// GradeBook records grades
type GradeBook interface {
	Assign(ctx context.Context, actor *auth.Principal, enrollmentID uuid.UUID, req dto.GradeRequest) (*models.Grade, error)
	Update(ctx context.Context, actor *auth.Principal, id uuid.UUID, req dto.GradeRequest) (*models.Grade, error)
	Delete(ctx context.Context, actor *auth.Principal, id uuid.UUID) error
	ListByEnrollment(ctx context.Context, actor *auth.Principal, enrollmentID uuid.UUID) ([]*models.Grade, error)
	ListMine(ctx context.Context, actor *auth.Principal) ([]*models.Grade, error)
}
