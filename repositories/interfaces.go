package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/upb/student-registration/models"
)

var (
	// ErrNotFound is returned when the requested row does not exist
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique constraint would be violated
	ErrDuplicate = errors.New("duplicate record")

	// ErrReferenced is returned when a row cannot be deleted because other rows still point at it
	ErrReferenced = errors.New("record is still referenced")
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction.
	// Repositories called with the ctx passed to fn run inside the transaction.
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	Commit() error
	Rollback() error
	Context() context.Context
}

// UserRepository handles user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByEmail looks up the login identifier; matching is case-insensitive
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CourseRepository handles course data operations
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	List(ctx context.Context, limit, offset int) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GroupRepository handles course group data operations
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error)

	// GetByIDForUpdate locks the group row until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Group, error)

	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*models.Group, error)
	Update(ctx context.Context, group *models.Group) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountEnrollments(ctx context.Context, groupID uuid.UUID) (int, error)
}

// EnrollmentRepository handles enrollment data operations
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Enrollment, error)

	// GetByGroupAndStudent returns ErrNotFound when the student is not in the group
	GetByGroupAndStudent(ctx context.Context, groupID, studentID uuid.UUID) (*models.Enrollment, error)

	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*models.Enrollment, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Enrollment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MeetingRepository handles meeting data operations
type MeetingRepository interface {
	Create(ctx context.Context, meeting *models.Meeting) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Meeting, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*models.Meeting, error)
	Update(ctx context.Context, meeting *models.Meeting) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AttendanceRepository handles attendance data operations
type AttendanceRepository interface {
	// Upsert inserts the record or replaces the status of an existing
	// (meeting, student) record. a.ID and a.RecordedAt reflect the stored row afterwards.
	Upsert(ctx context.Context, a *models.Attendance) error

	ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*models.Attendance, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Attendance, error)
}

// GradeRepository handles grade data operations
type GradeRepository interface {
	Create(ctx context.Context, grade *models.Grade) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Grade, error)
	ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]*models.Grade, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Grade, error)
	Update(ctx context.Context, grade *models.Grade) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ActivityRepository handles activity log data operations
type ActivityRepository interface {
	Insert(ctx context.Context, entry *models.ActivityLog) error
	ListByActor(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]*models.ActivityLog, error)
}

// Repositories aggregates all repository instances
type Repositories struct {
	Users       UserRepository
	Courses     CourseRepository
	Groups      GroupRepository
	Enrollments EnrollmentRepository
	Meetings    MeetingRepository
	Attendance  AttendanceRepository
	Grades      GradeRepository
	Activity    ActivityRepository
}
