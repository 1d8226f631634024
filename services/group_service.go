package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/upb/student-registration/auth"
	"github.com/upb/student-registration/dto"
	"github.com/upb/student-registration/models"
	"github.com/upb/student-registration/repositories"
	"go.uber.org/zap"
)

// GroupService manages the groups a course is taught in
type GroupService struct {
	groups   repositories.GroupRepository
	courses  repositories.CourseRepository
	users    repositories.UserRepository
	activity activityTrail
	logger   *zap.Logger
}

// NewGroupService creates a new GroupService
func NewGroupService(repos *repositories.Repositories, recorder ActivityRecorder, logger *zap.Logger) *GroupService {
	return &GroupService{
		groups:   repos.Groups,
		courses:  repos.Courses,
		users:    repos.Users,
		activity: activityTrail{recorder: recorder, logger: logger},
		logger:   logger,
	}
}

// checkTeacher ensures the assigned user exists and has the teacher role
func (s *GroupService) checkTeacher(ctx context.Context, teacherID *uuid.UUID) error {
	if teacherID == nil {
		return nil
	}
	user, err := s.users.GetByID(ctx, *teacherID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTeacherRequired.WithDetail("teacher_id", teacherID.String())
		}
		return WrapInternal("failed to load teacher", err)
	}
	if !user.IsTeacher() {
		return ErrTeacherRequired.WithDetail("teacher_id", teacherID.String())
	}
	return nil
}

// Create opens a group for a course
func (s *GroupService) Create(ctx context.Context, actor *auth.Principal, courseID uuid.UUID, req dto.GroupRequest) (*models.Group, error) {
	if req.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, repoError(err, ErrCourseNotFound, "failed to get course")
	}
	if err := s.checkTeacher(ctx, req.TeacherID); err != nil {
		return nil, err
	}

	group := models.NewGroup(courseID, strings.TrimSpace(req.Name), strings.TrimSpace(req.Semester), req.Capacity)
	group.TeacherID = req.TeacherID

	if err := s.groups.Create(ctx, group); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateGroup
		}
		return nil, repoError(err, ErrCourseNotFound, "failed to create group")
	}

	s.activity.record(ctx, actor, models.ActivityGroupCreated, "group", group.ID, map[string]string{
		"course_id": courseID.String(),
		"name":      group.Name,
		"semester":  group.Semester,
	})
	return group, nil
}

// Get returns a group by ID
func (s *GroupService) Get(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, ErrGroupNotFound, "failed to get group")
	}
	return group, nil
}

// ListByCourse returns the groups of a course
func (s *GroupService) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*models.Group, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, repoError(err, ErrCourseNotFound, "failed to get course")
	}
	groups, err := s.groups.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, WrapInternal("failed to list groups", err)
	}
	return groups, nil
}

// Update replaces a group's fields. Capacity cannot drop below current enrollment.
func (s *GroupService) Update(ctx context.Context, actor *auth.Principal, id uuid.UUID, req dto.GroupRequest) (*models.Group, error) {
	if req.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	group, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkTeacher(ctx, req.TeacherID); err != nil {
		return nil, err
	}

	enrolled, err := s.groups.CountEnrollments(ctx, id)
	if err != nil {
		return nil, WrapInternal("failed to count enrollments", err)
	}
	if req.Capacity < enrolled {
		return nil, ErrInvalidCapacity.WithDetail("enrolled", enrolled)
	}

	group.Name = strings.TrimSpace(req.Name)
	group.Semester = strings.TrimSpace(req.Semester)
	group.TeacherID = req.TeacherID
	group.Capacity = req.Capacity
	group.UpdatedAt = time.Now()

	if err := s.groups.Update(ctx, group); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateGroup
		}
		return nil, repoError(err, ErrGroupNotFound, "failed to update group")
	}

	s.activity.record(ctx, actor, models.ActivityGroupUpdated, "group", group.ID, nil)
	return group, nil
}

// Delete removes a group with its enrollments and meetings
func (s *GroupService) Delete(ctx context.Context, actor *auth.Principal, id uuid.UUID) error {
	if err := s.groups.Delete(ctx, id); err != nil {
		return repoError(err, ErrGroupNotFound, "failed to delete group")
	}
	s.activity.record(ctx, actor, models.ActivityGroupDeleted, "group", id, nil)
	return nil
}
