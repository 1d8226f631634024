package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/upb/student-registration/auth"
	"github.com/upb/student-registration/dto"
	"github.com/upb/student-registration/models"
	"github.com/upb/student-registration/repositories"
	"go.uber.org/zap"
)

// EnrollmentService places students in groups
type EnrollmentService struct {
	txMgr       repositories.TransactionManager
	enrollments repositories.EnrollmentRepository
	groups      repositories.GroupRepository
	users       repositories.UserRepository
	activity    activityTrail
	logger      *zap.Logger
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(txMgr repositories.TransactionManager, repos *repositories.Repositories, recorder ActivityRecorder, logger *zap.Logger) *EnrollmentService {
	return &EnrollmentService{
		txMgr:       txMgr,
		enrollments: repos.Enrollments,
		groups:      repos.Groups,
		users:       repos.Users,
		activity:    activityTrail{recorder: recorder, logger: logger},
		logger:      logger,
	}
}

// Enroll adds a student to a group. Students may only enroll themselves;
// administrators may enroll anyone. The group row is locked while the seat
// count is checked, so concurrent enrollments cannot overfill it.
func (s *EnrollmentService) Enroll(ctx context.Context, actor *auth.Principal, groupID uuid.UUID, req dto.EnrollRequest) (*models.Enrollment, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	studentID := actor.UserID
	if req.StudentID != nil {
		studentID = *req.StudentID
	}
	if studentID != actor.UserID && !isAdmin(actor) {
		return nil, ErrInsufficientPermissions
	}

	enrollment, err := WithTransactionResult(ctx, s.txMgr, func(ctx context.Context) (*models.Enrollment, error) {
		group, err := s.groups.GetByIDForUpdate(ctx, groupID)
		if err != nil {
			return nil, repoError(err, ErrGroupNotFound, "failed to lock group")
		}

		student, err := s.users.GetByID(ctx, studentID)
		if err != nil {
			return nil, repoError(err, ErrUserNotFound, "failed to get student")
		}
		if !student.IsStudent() {
			return nil, ErrStudentRequired
		}

		if _, err := s.enrollments.GetByGroupAndStudent(ctx, groupID, studentID); err == nil {
			return nil, ErrAlreadyEnrolled
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return nil, WrapInternal("failed to check enrollment", err)
		}

		enrolled, err := s.groups.CountEnrollments(ctx, groupID)
		if err != nil {
			return nil, WrapInternal("failed to count enrollments", err)
		}
		if enrolled >= group.Capacity {
			return nil, ErrGroupFull.WithDetail("capacity", group.Capacity)
		}

		enrollment := models.NewEnrollment(groupID, studentID)
		if err := s.enrollments.Create(ctx, enrollment); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return nil, ErrAlreadyEnrolled
			}
			return nil, WrapInternal("failed to create enrollment", err)
		}
		return enrollment, nil
	})
	if err != nil {
		return nil, err
	}

	s.activity.record(ctx, actor, models.ActivityEnrolled, "enrollment", enrollment.ID, map[string]string{
		"group_id":   groupID.String(),
		"student_id": studentID.String(),
	})
	s.logger.Info("student enrolled",
		zap.String("group_id", groupID.String()),
		zap.String("student_id", studentID.String()))
	return enrollment, nil
}

// Withdraw removes an enrollment. Only the enrolled student or an administrator may withdraw.
func (s *EnrollmentService) Withdraw(ctx context.Context, actor *auth.Principal, enrollmentID uuid.UUID) error {
	if actor == nil {
		return ErrUnauthorized
	}

	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return repoError(err, ErrEnrollmentNotFound, "failed to get enrollment")
	}
	if enrollment.StudentID != actor.UserID && !isAdmin(actor) {
		return ErrInsufficientPermissions
	}

	if err := s.enrollments.Delete(ctx, enrollmentID); err != nil {
		return repoError(err, ErrEnrollmentNotFound, "failed to delete enrollment")
	}
	s.activity.record(ctx, actor, models.ActivityWithdrawn, "enrollment", enrollmentID, nil)
	return nil
}

// ListByGroup returns a group's roster. Teachers only see their own groups.
func (s *EnrollmentService) ListByGroup(ctx context.Context, actor *auth.Principal, groupID uuid.UUID) ([]*models.Enrollment, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, repoError(err, ErrGroupNotFound, "failed to get group")
	}
	if !canTeach(actor, group) {
		return nil, ErrInsufficientPermissions
	}

	enrollments, err := s.enrollments.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, WrapInternal("failed to list enrollments", err)
	}
	return enrollments, nil
}

// ListMine returns the acting student's enrollments
func (s *EnrollmentService) ListMine(ctx context.Context, actor *auth.Principal) ([]*models.Enrollment, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	enrollments, err := s.enrollments.ListByStudent(ctx, actor.UserID)
	if err != nil {
		return nil, WrapInternal("failed to list enrollments", err)
	}
	return enrollments, nil
}
