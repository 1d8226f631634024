package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/upb/student-registration/auth"
	"github.com/upb/student-registration/models"
	"github.com/upb/student-registration/repositories"
)

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	if u := args.Get(0); u != nil {
		return u.([]*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockCourseRepository struct{ mock.Mock }

func (m *MockCourseRepository) Create(ctx context.Context, course *models.Course) error {
	return m.Called(ctx, course).Error(0)
}

func (m *MockCourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*models.Course), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCourseRepository) List(ctx context.Context, limit, offset int) ([]*models.Course, error) {
	args := m.Called(ctx, limit, offset)
	if c := args.Get(0); c != nil {
		return c.([]*models.Course), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCourseRepository) Update(ctx context.Context, course *models.Course) error {
	return m.Called(ctx, course).Error(0)
}

func (m *MockCourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockGroupRepository struct{ mock.Mock }

func (m *MockGroupRepository) Create(ctx context.Context, group *models.Group) error {
	return m.Called(ctx, group).Error(0)
}

func (m *MockGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	args := m.Called(ctx, id)
	if g := args.Get(0); g != nil {
		return g.(*models.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGroupRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	args := m.Called(ctx, id)
	if g := args.Get(0); g != nil {
		return g.(*models.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGroupRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*models.Group, error) {
	args := m.Called(ctx, courseID)
	if g := args.Get(0); g != nil {
		return g.([]*models.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGroupRepository) Update(ctx context.Context, group *models.Group) error {
	return m.Called(ctx, group).Error(0)
}

func (m *MockGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockGroupRepository) CountEnrollments(ctx context.Context, groupID uuid.UUID) (int, error) {
	args := m.Called(ctx, groupID)
	return args.Int(0), args.Error(1)
}

type MockEnrollmentRepository struct{ mock.Mock }

func (m *MockEnrollmentRepository) Create(ctx context.Context, e *models.Enrollment) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEnrollmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Enrollment, error) {
	args := m.Called(ctx, id)
	if e := args.Get(0); e != nil {
		return e.(*models.Enrollment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEnrollmentRepository) GetByGroupAndStudent(ctx context.Context, groupID, studentID uuid.UUID) (*models.Enrollment, error) {
	args := m.Called(ctx, groupID, studentID)
	if e := args.Get(0); e != nil {
		return e.(*models.Enrollment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEnrollmentRepository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*models.Enrollment, error) {
	args := m.Called(ctx, groupID)
	if e := args.Get(0); e != nil {
		return e.([]*models.Enrollment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEnrollmentRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Enrollment, error) {
	args := m.Called(ctx, studentID)
	if e := args.Get(0); e != nil {
		return e.([]*models.Enrollment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEnrollmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockMeetingRepository struct{ mock.Mock }

func (m *MockMeetingRepository) Create(ctx context.Context, meeting *models.Meeting) error {
	return m.Called(ctx, meeting).Error(0)
}

func (m *MockMeetingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Meeting, error) {
	args := m.Called(ctx, id)
	if mt := args.Get(0); mt != nil {
		return mt.(*models.Meeting), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMeetingRepository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*models.Meeting, error) {
	args := m.Called(ctx, groupID)
	if mt := args.Get(0); mt != nil {
		return mt.([]*models.Meeting), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMeetingRepository) Update(ctx context.Context, meeting *models.Meeting) error {
	return m.Called(ctx, meeting).Error(0)
}

func (m *MockMeetingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockAttendanceRepository struct{ mock.Mock }

func (m *MockAttendanceRepository) Upsert(ctx context.Context, a *models.Attendance) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAttendanceRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*models.Attendance, error) {
	args := m.Called(ctx, meetingID)
	if a := args.Get(0); a != nil {
		return a.([]*models.Attendance), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAttendanceRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Attendance, error) {
	args := m.Called(ctx, studentID)
	if a := args.Get(0); a != nil {
		return a.([]*models.Attendance), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockGradeRepository struct{ mock.Mock }

func (m *MockGradeRepository) Create(ctx context.Context, g *models.Grade) error {
	return m.Called(ctx, g).Error(0)
}

func (m *MockGradeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Grade, error) {
	args := m.Called(ctx, id)
	if g := args.Get(0); g != nil {
		return g.(*models.Grade), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGradeRepository) ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]*models.Grade, error) {
	args := m.Called(ctx, enrollmentID)
	if g := args.Get(0); g != nil {
		return g.([]*models.Grade), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGradeRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Grade, error) {
	args := m.Called(ctx, studentID)
	if g := args.Get(0); g != nil {
		return g.([]*models.Grade), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGradeRepository) Update(ctx context.Context, g *models.Grade) error {
	return m.Called(ctx, g).Error(0)
}

func (m *MockGradeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockActivityRepository struct{ mock.Mock }

func (m *MockActivityRepository) Insert(ctx context.Context, entry *models.ActivityLog) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockActivityRepository) ListByActor(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]*models.ActivityLog, error) {
	args := m.Called(ctx, actorID, limit, offset)
	if e := args.Get(0); e != nil {
		return e.([]*models.ActivityLog), args.Error(1)
	}
	return nil, args.Error(1)
}

// recordingActivity collects queued entries in memory
type recordingActivity struct {
	mu      sync.Mutex
	entries []*models.ActivityLog
}

func (r *recordingActivity) Record(entry *models.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recordingActivity) actions() []models.ActivityAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.ActivityAction, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

func (r *recordingActivity) last() *models.ActivityLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return nil
	}
	return r.entries[len(r.entries)-1]
}

type MockTokenIssuer struct{ mock.Mock }

func (m *MockTokenIssuer) IssueWithExpiry(subject string) (string, time.Time, error) {
	args := m.Called(subject)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

type MockLoginThrottle struct{ mock.Mock }

func (m *MockLoginThrottle) CheckLogin(ctx context.Context, identifier, ip string) error {
	return m.Called(ctx, identifier, ip).Error(0)
}

func (m *MockLoginThrottle) IncrementLogin(ctx context.Context, identifier, ip string) error {
	return m.Called(ctx, identifier, ip).Error(0)
}

func (m *MockLoginThrottle) ResetLogin(ctx context.Context, identifier, ip string) error {
	return m.Called(ctx, identifier, ip).Error(0)
}

// repoSet bundles mocks behind a repositories.Repositories
type repoSet struct {
	users       *MockUserRepository
	courses     *MockCourseRepository
	groups      *MockGroupRepository
	enrollments *MockEnrollmentRepository
	meetings    *MockMeetingRepository
	attendance  *MockAttendanceRepository
	grades      *MockGradeRepository
	activity    *MockActivityRepository
}

func newRepoSet() *repoSet {
	return &repoSet{
		users:       new(MockUserRepository),
		courses:     new(MockCourseRepository),
		groups:      new(MockGroupRepository),
		enrollments: new(MockEnrollmentRepository),
		meetings:    new(MockMeetingRepository),
		attendance:  new(MockAttendanceRepository),
		grades:      new(MockGradeRepository),
		activity:    new(MockActivityRepository),
	}
}

func (r *repoSet) repositories() *repositories.Repositories {
	return &repositories.Repositories{
		Users:       r.users,
		Courses:     r.courses,
		Groups:      r.groups,
		Enrollments: r.enrollments,
		Meetings:    r.meetings,
		Attendance:  r.attendance,
		Grades:      r.grades,
		Activity:    r.activity,
	}
}

func principalFor(role models.UserRole) *auth.Principal {
	return &auth.Principal{
		Identifier: string(role) + "@example.com",
		UserID:     uuid.New(),
		Roles:      []string{string(role)},
	}
}
