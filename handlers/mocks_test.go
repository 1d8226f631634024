package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/upb/student-registration/auth"
	"github.com/upb/student-registration/dto"
	"github.com/upb/student-registration/middleware"
	"github.com/upb/student-registration/models"
	"github.com/upb/student-registration/services"
)

type MockAuthenticator struct{ mock.Mock }

func (m *MockAuthenticator) Login(ctx context.Context, email, password, ip string) (*services.LoginResult, error) {
	args := m.Called(ctx, email, password, ip)
	if r := args.Get(0); r != nil {
		return r.(*services.LoginResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthenticator) Logout(ctx context.Context, actor *auth.Principal) {
	m.Called(ctx, actor)
}

func (m *MockAuthenticator) Register(ctx context.Context, actor *auth.Principal, req dto.CreateUserRequest) (*models.User, error) {
	args := m.Called(ctx, actor, req)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockUserDirectory struct{ mock.Mock }

func (m *MockUserDirectory) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserDirectory) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	if u := args.Get(0); u != nil {
		return u.([]*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserDirectory) Delete(ctx context.Context, actor *auth.Principal, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockUserDirectory) ListActivity(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.ActivityLog, error) {
	args := m.Called(ctx, userID, limit, offset)
	if e := args.Get(0); e != nil {
		return e.([]*models.ActivityLog), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCourseCatalog struct{ mock.Mock }

func (m *MockCourseCatalog) Create(ctx context.Context, actor *auth.Principal, req dto.CourseRequest) (*models.Course, error) {
	args := m.Called(ctx, actor, req)
	if c := args.Get(0); c != nil {
		return c.(*models.Course), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCourseCatalog) Get(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*models.Course), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCourseCatalog) List(ctx context.Context, limit, offset int) ([]*models.Course, error) {
	args := m.Called(ctx, limit, offset)
	if c := args.Get(0); c != nil {
		return c.([]*models.Course), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCourseCatalog) Update(ctx context.Context, actor *auth.Principal, id uuid.UUID, req dto.CourseRequest) (*models.Course, error) {
	args := m.Called(ctx, actor, id, req)
	if c := args.Get(0); c != nil {
		return c.(*models.Course), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCourseCatalog) Delete(ctx context.Context, actor *auth.Principal, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockGroupManager struct{ mock.Mock }

func (m *MockGroupManager) Create(ctx context.Context, actor *auth.Principal, courseID uuid.UUID, req dto.GroupRequest) (*models.Group, error) {
	args := m.Called(ctx, actor, courseID, req)
	if g := args.Get(0); g != nil {
		return g.(*models.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGroupManager) Get(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	args := m.Called(ctx, id)
	if g := args.Get(0); g != nil {
		return g.(*models.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGroupManager) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*models.Group, error) {
	args := m.Called(ctx, courseID)
	if g := args.Get(0); g != nil {
		return g.([]*models.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGroupManager) Update(ctx context.Context, actor *auth.Principal, id uuid.UUID, req dto.GroupRequest) (*models.Group, error) {
	args := m.Called(ctx, actor, id, req)
	if g := args.Get(0); g != nil {
		return g.(*models.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGroupManager) Delete(ctx context.Context, actor *auth.Principal, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockEnrollmentManager struct{ mock.Mock }

func (m *MockEnrollmentManager) Enroll(ctx context.Context, actor *auth.Principal, groupID uuid.UUID, req dto.EnrollRequest) (*models.Enrollment, error) {
	args := m.Called(ctx, actor, groupID, req)
	if e := args.Get(0); e != nil {
		return e.(*models.Enrollment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEnrollmentManager) Withdraw(ctx context.Context, actor *auth.Principal, enrollmentID uuid.UUID) error {
	return m.Called(ctx, actor, enrollmentID).Error(0)
}

func (m *MockEnrollmentManager) ListByGroup(ctx context.Context, actor *auth.Principal, groupID uuid.UUID) ([]*models.Enrollment, error) {
	args := m.Called(ctx, actor, groupID)
	if e := args.Get(0); e != nil {
		return e.([]*models.Enrollment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEnrollmentManager) ListMine(ctx context.Context, actor *auth.Principal) ([]*models.Enrollment, error) {
	args := m.Called(ctx, actor)
	if e := args.Get(0); e != nil {
		return e.([]*models.Enrollment), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockMeetingScheduler struct{ mock.Mock }

func (m *MockMeetingScheduler) Create(ctx context.Context, actor *auth.Principal, groupID uuid.UUID, req dto.MeetingRequest) (*models.Meeting, error) {
	args := m.Called(ctx, actor, groupID, req)
	if mt := args.Get(0); mt != nil {
		return mt.(*models.Meeting), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMeetingScheduler) Get(ctx context.Context, id uuid.UUID) (*models.Meeting, error) {
	args := m.Called(ctx, id)
	if mt := args.Get(0); mt != nil {
		return mt.(*models.Meeting), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMeetingScheduler) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*models.Meeting, error) {
	args := m.Called(ctx, groupID)
	if mt := args.Get(0); mt != nil {
		return mt.([]*models.Meeting), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMeetingScheduler) Update(ctx context.Context, actor *auth.Principal, id uuid.UUID, req dto.MeetingRequest) (*models.Meeting, error) {
	args := m.Called(ctx, actor, id, req)
	if mt := args.Get(0); mt != nil {
		return mt.(*models.Meeting), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMeetingScheduler) Delete(ctx context.Context, actor *auth.Principal, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockAttendanceKeeper struct{ mock.Mock }

func (m *MockAttendanceKeeper) Record(ctx context.Context, actor *auth.Principal, meetingID uuid.UUID, req dto.RecordAttendanceRequest) ([]*models.Attendance, error) {
	args := m.Called(ctx, actor, meetingID, req)
	if a := args.Get(0); a != nil {
		return a.([]*models.Attendance), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAttendanceKeeper) ListByMeeting(ctx context.Context, actor *auth.Principal, meetingID uuid.UUID) ([]*models.Attendance, error) {
	args := m.Called(ctx, actor, meetingID)
	if a := args.Get(0); a != nil {
		return a.([]*models.Attendance), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAttendanceKeeper) ListMine(ctx context.Context, actor *auth.Principal) ([]*models.Attendance, error) {
	args := m.Called(ctx, actor)
	if a := args.Get(0); a != nil {
		return a.([]*models.Attendance), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockGradeBook struct{ mock.Mock }

func (m *MockGradeBook) Assign(ctx context.Context, actor *auth.Principal, enrollmentID uuid.UUID, req dto.GradeRequest) (*models.Grade, error) {
	args := m.Called(ctx, actor, enrollmentID, req)
	if g := args.Get(0); g != nil {
		return g.(*models.Grade), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGradeBook) Update(ctx context.Context, actor *auth.Principal, id uuid.UUID, req dto.GradeRequest) (*models.Grade, error) {
	args := m.Called(ctx, actor, id, req)
	if g := args.Get(0); g != nil {
		return g.(*models.Grade), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGradeBook) Delete(ctx context.Context, actor *auth.Principal, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockGradeBook) ListByEnrollment(ctx context.Context, actor *auth.Principal, enrollmentID uuid.UUID) ([]*models.Grade, error) {
	args := m.Called(ctx, actor, enrollmentID)
	if g := args.Get(0); g != nil {
		return g.([]*models.Grade), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGradeBook) ListMine(ctx context.Context, actor *auth.Principal) ([]*models.Grade, error) {
	args := m.Called(ctx, actor)
	if g := args.Get(0); g != nil {
		return g.([]*models.Grade), args.Error(1)
	}
	return nil, args.Error(1)
}

// serve routes a single request through a chi router so path parameters resolve.
// A non-nil principal is attached the way the authentication gate would.
func serve(method, pattern, target, body string, h http.HandlerFunc, p *auth.Principal) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if p != nil {
		req = req.WithContext(middleware.WithPrincipal(req.Context(), p))
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func testPrincipal(role models.UserRole) *auth.Principal {
	return &auth.Principal{
		Identifier: string(role) + "@example.com",
		UserID:     uuid.New(),
		Roles:      []string{string(role)},
	}
}
