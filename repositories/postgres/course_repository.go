package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/student-registration/models"
	"github.com/upb/student-registration/repositories"
	"go.uber.org/zap"
)

const courseColumns = `id, code, name, description, credits, created_at, updated_at`

// CourseRepository implements the repositories.CourseRepository interface
type CourseRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *DB, logger *zap.Logger) repositories.CourseRepository {
	return &CourseRepository{
		db:     db,
		logger: logger,
	}
}

func scanCourse(s rowScanner) (*models.Course, error) {
	c := &models.Course{}
	if err := s.Scan(&c.ID, &c.Code, &c.Name, &c.Description, &c.Credits, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

// Create creates a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (` + courseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		course.ID,
		course.Code,
		course.Name,
		course.Description,
		course.Credits,
		course.CreatedAt,
		course.UpdatedAt,
	)
	if err != nil {
		return mapError("failed to create course", err)
	}

	r.logger.Debug("course created", zap.String("id", course.ID.String()), zap.String("code", course.Code))
	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	course, err := scanCourse(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(fmt.Sprintf("failed to get course %s", id), err)
	}
	return course, nil
}

// List retrieves courses ordered by code with pagination
func (r *CourseRepository) List(ctx context.Context, limit, offset int) ([]*models.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses
		ORDER BY code
		LIMIT $1 OFFSET $2
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, mapError("failed to query courses", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, nil
}

// Update updates a course
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET code = $2,
		    name = $3,
		    description = $4,
		    credits = $5,
		    updated_at = $6
		WHERE id = $1
	`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		course.ID,
		course.Code,
		course.Name,
		course.Description,
		course.Credits,
		course.UpdatedAt,
	)
	if err != nil {
		return mapError("failed to update course", err)
	}
	if err := expectAffected("failed to update course", result); err != nil {
		return err
	}

	r.logger.Debug("course updated", zap.String("id", course.ID.String()))
	return nil
}

// Delete deletes a course and, by cascade, its groups
func (r *CourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return mapDeleteError("failed to delete course", err)
	}
	if err := expectAffected("failed to delete course", result); err != nil {
		return err
	}

	r.logger.Debug("course deleted", zap.String("id", id.String()))
	return nil
}
