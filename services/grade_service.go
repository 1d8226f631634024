package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/upb/student-registration/auth"
	"github.com/upb/student-registration/dto"
	"github.com/upb/student-registration/models"
	"github.com/upb/student-registration/repositories"
	"go.uber.org/zap"
)

// GradeService records marks against enrollments
type GradeService struct {
	grades      repositories.GradeRepository
	enrollments repositories.EnrollmentRepository
	groups      repositories.GroupRepository
	activity    activityTrail
	logger      *zap.Logger
}

// NewGradeService creates a new GradeService
func NewGradeService(repos *repositories.Repositories, recorder ActivityRecorder, logger *zap.Logger) *GradeService {
	return &GradeService{
		grades:      repos.Grades,
		enrollments: repos.Enrollments,
		groups:      repos.Groups,
		activity:    activityTrail{recorder: recorder, logger: logger},
		logger:      logger,
	}
}

// enrollmentFor loads an enrollment and checks that actor may grade its group
func (s *GradeService) enrollmentFor(ctx context.Context, actor *auth.Principal, enrollmentID uuid.UUID) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, repoError(err, ErrEnrollmentNotFound, "failed to get enrollment")
	}
	group, err := s.groups.GetByID(ctx, enrollment.GroupID)
	if err != nil {
		return nil, repoError(err, ErrGroupNotFound, "failed to get group")
	}
	if !canTeach(actor, group) {
		return nil, ErrInsufficientPermissions
	}
	return enrollment, nil
}

// gradeFor loads a grade and checks that actor may change it
func (s *GradeService) gradeFor(ctx context.Context, actor *auth.Principal, gradeID uuid.UUID) (*models.Grade, error) {
	grade, err := s.grades.GetByID(ctx, gradeID)
	if err != nil {
		return nil, repoError(err, ErrGradeNotFound, "failed to get grade")
	}
	if _, err := s.enrollmentFor(ctx, actor, grade.EnrollmentID); err != nil {
		return nil, err
	}
	return grade, nil
}

// Assign gives a grade for an enrollment
func (s *GradeService) Assign(ctx context.Context, actor *auth.Principal, enrollmentID uuid.UUID, req dto.GradeRequest) (*models.Grade, error) {
	if !models.ValidGradeValue(req.Value) {
		return nil, ErrInvalidGrade.WithDetail("value", req.Value)
	}
	if _, err := s.enrollmentFor(ctx, actor, enrollmentID); err != nil {
		return nil, err
	}

	grade := models.NewGrade(enrollmentID, req.Value, strings.TrimSpace(req.Description), actor.UserID)
	if err := s.grades.Create(ctx, grade); err != nil {
		return nil, repoError(err, ErrEnrollmentNotFound, "failed to create grade")
	}

	s.activity.record(ctx, actor, models.ActivityGradeAssigned, "grade", grade.ID, map[string]interface{}{
		"enrollment_id": enrollmentID.String(),
		"value":         grade.Value,
	})
	return grade, nil
}

// Update changes a grade's value and description
func (s *GradeService) Update(ctx context.Context, actor *auth.Principal, id uuid.UUID, req dto.GradeRequest) (*models.Grade, error) {
	if !models.ValidGradeValue(req.Value) {
		return nil, ErrInvalidGrade.WithDetail("value", req.Value)
	}

	grade, err := s.gradeFor(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	previous := grade.Value
	grade.Value = req.Value
	grade.Description = strings.TrimSpace(req.Description)
	grade.GradedAt = time.Now()
	grade.GradedBy = actor.UserID

	if err := s.grades.Update(ctx, grade); err != nil {
		return nil, repoError(err, ErrGradeNotFound, "failed to update grade")
	}

	s.activity.record(ctx, actor, models.ActivityGradeUpdated, "grade", grade.ID, map[string]float64{
		"from": previous,
		"to":   grade.Value,
	})
	return grade, nil
}

// Delete removes a grade
func (s *GradeService) Delete(ctx context.Context, actor *auth.Principal, id uuid.UUID) error {
	if _, err := s.gradeFor(ctx, actor, id); err != nil {
		return err
	}
	if err := s.grades.Delete(ctx, id); err != nil {
		return repoError(err, ErrGradeNotFound, "failed to delete grade")
	}
	s.activity.record(ctx, actor, models.ActivityGradeDeleted, "grade", id, nil)
	return nil
}

// ListByEnrollment returns the grades of an enrollment
func (s *GradeService) ListByEnrollment(ctx context.Context, actor *auth.Principal, enrollmentID uuid.UUID) ([]*models.Grade, error) {
	if _, err := s.enrollmentFor(ctx, actor, enrollmentID); err != nil {
		return nil, err
	}
	grades, err := s.grades.ListByEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, WrapInternal("failed to list grades", err)
	}
	return grades, nil
}

// ListMine returns every grade of the acting student
func (s *GradeService) ListMine(ctx context.Context, actor *auth.Principal) ([]*models.Grade, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	grades, err := s.grades.ListByStudent(ctx, actor.UserID)
	if err != nil {
		return nil, WrapInternal("failed to list grades", err)
	}
	return grades, nil
}
