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

// CourseService manages the course catalogue
type CourseService struct {
	courses  repositories.CourseRepository
	activity activityTrail
	logger   *zap.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(courses repositories.CourseRepository, recorder ActivityRecorder, logger *zap.Logger) *CourseService {
	return &CourseService{
		courses:  courses,
		activity: activityTrail{recorder: recorder, logger: logger},
		logger:   logger,
	}
}

func validateCourse(req dto.CourseRequest) error {
	if req.Credits < models.MinCourseCredits || req.Credits > models.MaxCourseCredits {
		return ErrInvalidCredits.WithDetail("credits", req.Credits)
	}
	return nil
}

// Create adds a course. Codes are stored upper-case and must be unique.
func (s *CourseService) Create(ctx context.Context, actor *auth.Principal, req dto.CourseRequest) (*models.Course, error) {
	if err := validateCourse(req); err != nil {
		return nil, err
	}

	course := models.NewCourse(strings.ToUpper(strings.TrimSpace(req.Code)), strings.TrimSpace(req.Name), req.Description, req.Credits)
	if err := s.courses.Create(ctx, course); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateCourseCode.WithDetail("code", course.Code)
		}
		return nil, WrapInternal("failed to create course", err)
	}

	s.activity.record(ctx, actor, models.ActivityCourseCreated, "course", course.ID, map[string]string{"code": course.Code})
	return course, nil
}

// Get returns a course by ID
func (s *CourseService) Get(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, ErrCourseNotFound, "failed to get course")
	}
	return course, nil
}

// List returns a page of courses ordered by code
func (s *CourseService) List(ctx context.Context, limit, offset int) ([]*models.Course, error) {
	courses, err := s.courses.List(ctx, limit, offset)
	if err != nil {
		return nil, WrapInternal("failed to list courses", err)
	}
	return courses, nil
}

// Update replaces a course's fields
func (s *CourseService) Update(ctx context.Context, actor *auth.Principal, id uuid.UUID, req dto.CourseRequest) (*models.Course, error) {
	if err := validateCourse(req); err != nil {
		return nil, err
	}

	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	course.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	course.Name = strings.TrimSpace(req.Name)
	course.Description = req.Description
	course.Credits = req.Credits
	course.UpdatedAt = time.Now()

	if err := s.courses.Update(ctx, course); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateCourseCode.WithDetail("code", course.Code)
		}
		return nil, repoError(err, ErrCourseNotFound, "failed to update course")
	}

	s.activity.record(ctx, actor, models.ActivityCourseUpdated, "course", course.ID, map[string]string{"code": course.Code})
	return course, nil
}

// Delete removes a course together with its groups
func (s *CourseService) Delete(ctx context.Context, actor *auth.Principal, id uuid.UUID) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		return repoError(err, ErrCourseNotFound, "failed to delete course")
	}
	s.activity.record(ctx, actor, models.ActivityCourseDeleted, "course", id, nil)
	return nil
}
