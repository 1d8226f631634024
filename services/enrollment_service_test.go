package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/student-registration/auth"
	"github.com/upb/student-registration/dto"
	"github.com/upb/student-registration/models"
	"github.com/upb/student-registration/repositories"
	"go.uber.org/zap"
)

var txCtx = mock.MatchedBy(func(ctx context.Context) bool { return inTx(ctx) })

type enrollmentFixture struct {
	repos    *repoSet
	txMgr    *MockTransactionManager
	tx       *MockTransaction
	activity *recordingActivity
	service  *EnrollmentService
	group    *models.Group
	student  *models.User
	actor    *auth.Principal
}

func newEnrollmentFixture(capacity int) *enrollmentFixture {
	f := &enrollmentFixture{
		repos:    newRepoSet(),
		txMgr:    new(MockTransactionManager),
		activity: &recordingActivity{},
		group:    models.NewGroup(uuid.New(), "G1", "2026-1", capacity),
		student:  models.NewUser("sam@example.com", "hash", "Sam", "Student", models.RoleStudent),
	}
	f.actor = PrincipalFromUser(f.student)
	f.tx = committingTx(f.txMgr)
	f.service = NewEnrollmentService(f.txMgr, f.repos.repositories(), f.activity, zap.NewNop())
	return f
}

// seatAvailable sets up the lookups that precede the capacity check
func (f *enrollmentFixture) seatAvailable(enrolled int) {
	f.repos.groups.On("GetByIDForUpdate", txCtx, f.group.ID).Return(f.group, nil)
	f.repos.users.On("GetByID", txCtx, f.student.ID).Return(f.student, nil)
	f.repos.enrollments.On("GetByGroupAndStudent", txCtx, f.group.ID, f.student.ID).Return(nil, repositories.ErrNotFound)
	f.repos.groups.On("CountEnrollments", txCtx, f.group.ID).Return(enrolled, nil)
}

func TestEnrollmentService_Enroll(t *testing.T) {
	ctx := context.Background()

	t.Run("self enrollment", func(t *testing.T) {
		f := newEnrollmentFixture(30)
		f.seatAvailable(29)
		f.repos.enrollments.On("Create", txCtx, mock.AnythingOfType("*models.Enrollment")).Return(nil)

		enrollment, err := f.service.Enroll(ctx, f.actor, f.group.ID, dto.EnrollRequest{})
		require.NoError(t, err)
		assert.Equal(t, f.group.ID, enrollment.GroupID)
		assert.Equal(t, f.student.ID, enrollment.StudentID)
		assert.True(t, f.tx.committed)
		assert.False(t, f.tx.rolledback)
		assert.Equal(t, []models.ActivityAction{models.ActivityEnrolled}, f.activity.actions())
		f.repos.groups.AssertExpectations(t)
	})

	t.Run("group full", func(t *testing.T) {
		f := newEnrollmentFixture(30)
		f.seatAvailable(30)

		_, err := f.service.Enroll(ctx, f.actor, f.group.ID, dto.EnrollRequest{})
		assert.ErrorIs(t, err, ErrGroupFull)
		assert.True(t, f.tx.rolledback)
		assert.False(t, f.tx.committed)
		f.repos.enrollments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Empty(t, f.activity.actions())
	})

	t.Run("already enrolled", func(t *testing.T) {
		f := newEnrollmentFixture(30)
		existing := models.NewEnrollment(f.group.ID, f.student.ID)
		f.repos.groups.On("GetByIDForUpdate", txCtx, f.group.ID).Return(f.group, nil)
		f.repos.users.On("GetByID", txCtx, f.student.ID).Return(f.student, nil)
		f.repos.enrollments.On("GetByGroupAndStudent", txCtx, f.group.ID, f.student.ID).Return(existing, nil)

		_, err := f.service.Enroll(ctx, f.actor, f.group.ID, dto.EnrollRequest{})
		assert.ErrorIs(t, err, ErrAlreadyEnrolled)
		assert.True(t, IsConflictError(err))
	})

	t.Run("student enrolling someone else", func(t *testing.T) {
		f := newEnrollmentFixture(30)
		other := uuid.New()

		_, err := f.service.Enroll(ctx, f.actor, f.group.ID, dto.EnrollRequest{StudentID: &other})
		assert.ErrorIs(t, err, ErrInsufficientPermissions)
		f.txMgr.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("admin enrolls a student", func(t *testing.T) {
		f := newEnrollmentFixture(30)
		f.seatAvailable(0)
		f.repos.enrollments.On("Create", txCtx, mock.Anything).Return(nil)

		admin := principalFor(models.RoleAdmin)
		enrollment, err := f.service.Enroll(ctx, admin, f.group.ID, dto.EnrollRequest{StudentID: &f.student.ID})
		require.NoError(t, err)
		assert.Equal(t, f.student.ID, enrollment.StudentID)
		assert.Equal(t, admin.Identifier, f.activity.last().Actor)
	})

	t.Run("only students can be enrolled", func(t *testing.T) {
		f := newEnrollmentFixture(30)
		teacher := models.NewUser("t@example.com", "hash", "T", "T", models.RoleTeacher)
		f.repos.groups.On("GetByIDForUpdate", txCtx, f.group.ID).Return(f.group, nil)
		f.repos.users.On("GetByID", txCtx, teacher.ID).Return(teacher, nil)

		_, err := f.service.Enroll(ctx, principalFor(models.RoleAdmin), f.group.ID, dto.EnrollRequest{StudentID: &teacher.ID})
		assert.ErrorIs(t, err, ErrStudentRequired)
	})

	t.Run("missing group", func(t *testing.T) {
		f := newEnrollmentFixture(30)
		f.repos.groups.On("GetByIDForUpdate", txCtx, f.group.ID).Return(nil, repositories.ErrNotFound)

		_, err := f.service.Enroll(ctx, f.actor, f.group.ID, dto.EnrollRequest{})
		assert.ErrorIs(t, err, ErrGroupNotFound)
	})

	t.Run("unique index race", func(t *testing.T) {
		f := newEnrollmentFixture(30)
		f.seatAvailable(3)
		f.repos.enrollments.On("Create", txCtx, mock.Anything).Return(repositories.ErrDuplicate)

		_, err := f.service.Enroll(ctx, f.actor, f.group.ID, dto.EnrollRequest{})
		assert.ErrorIs(t, err, ErrAlreadyEnrolled)
	})

	t.Run("anonymous", func(t *testing.T) {
		f := newEnrollmentFixture(30)
		_, err := f.service.Enroll(ctx, nil, f.group.ID, dto.EnrollRequest{})
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestEnrollmentService_Withdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("own enrollment", func(t *testing.T) {
		f := newEnrollmentFixture(30)
		enrollment := models.NewEnrollment(f.group.ID, f.student.ID)
		f.repos.enrollments.On("GetByID", mock.Anything, enrollment.ID).Return(enrollment, nil)
		f.repos.enrollments.On("Delete", mock.Anything, enrollment.ID).Return(nil)

		require.NoError(t, f.service.Withdraw(ctx, f.actor, enrollment.ID))
		assert.Equal(t, []models.ActivityAction{models.ActivityWithdrawn}, f.activity.actions())
	})

	t.Run("someone else's enrollment", func(t *testing.T) {
		f := newEnrollmentFixture(30)
		enrollment := models.NewEnrollment(f.group.ID, uuid.New())
		f.repos.enrollments.On("GetByID", mock.Anything, enrollment.ID).Return(enrollment, nil)

		err := f.service.Withdraw(ctx, f.actor, enrollment.ID)
		assert.ErrorIs(t, err, ErrInsufficientPermissions)
		f.repos.enrollments.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing enrollment", func(t *testing.T) {
		f := newEnrollmentFixture(30)
		f.repos.enrollments.On("GetByID", mock.Anything, mock.Anything).Return(nil, repositories.ErrNotFound)

		err := f.service.Withdraw(ctx, principalFor(models.RoleAdmin), uuid.New())
		assert.ErrorIs(t, err, ErrEnrollmentNotFound)
	})
}

func TestEnrollmentService_ListByGroup(t *testing.T) {
	ctx := context.Background()
	teacher := principalFor(models.RoleTeacher)

	t.Run("own group", func(t *testing.T) {
		f := newEnrollmentFixture(30)
		f.group.WithTeacher(teacher.UserID)
		roster := []*models.Enrollment{models.NewEnrollment(f.group.ID, f.student.ID)}
		f.repos.groups.On("GetByID", mock.Anything, f.group.ID).Return(f.group, nil)
		f.repos.enrollments.On("ListByGroup", mock.Anything, f.group.ID).Return(roster, nil)

		got, err := f.service.ListByGroup(ctx, teacher, f.group.ID)
		require.NoError(t, err)
		assert.Equal(t, roster, got)
	})

	t.Run("another teacher's group", func(t *testing.T) {
		f := newEnrollmentFixture(30)
		f.group.WithTeacher(uuid.New())
		f.repos.groups.On("GetByID", mock.Anything, f.group.ID).Return(f.group, nil)

		_, err := f.service.ListByGroup(ctx, teacher, f.group.ID)
		assert.ErrorIs(t, err, ErrInsufficientPermissions)
	})
}

func TestEnrollmentService_ListMine(t *testing.T) {
	f := newEnrollmentFixture(30)
	mine := []*models.Enrollment{models.NewEnrollment(f.group.ID, f.student.ID)}
	f.repos.enrollments.On("ListByStudent", mock.Anything, f.student.ID).Return(mine, nil)

	got, err := f.service.ListMine(context.Background(), f.actor)
	require.NoError(t, err)
	assert.Equal(t, mine, got)

	_, err = f.service.ListMine(context.Background(), nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
