package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/student-registration/models"
	"github.com/upb/student-registration/repositories"
	"go.uber.org/zap"
)

const enrollmentColumns = `id, group_id, student_id, enrolled_at`

// EnrollmentRepository implements the repositories.EnrollmentRepository interface
type EnrollmentRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *DB, logger *zap.Logger) repositories.EnrollmentRepository {
	return &EnrollmentRepository{
		db:     db,
		logger: logger,
	}
}

func scanEnrollment(s rowScanner) (*models.Enrollment, error) {
	e := &models.Enrollment{}
	if err := s.Scan(&e.ID, &e.GroupID, &e.StudentID, &e.EnrolledAt); err != nil {
		return nil, err
	}
	return e, nil
}

// Create creates a new enrollment
func (r *EnrollmentRepository) Create(ctx context.Context, e *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (` + enrollmentColumns + `)
		VALUES ($1, $2, $3, $4)
	`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, e.ID, e.GroupID, e.StudentID, e.EnrolledAt)
	if err != nil {
		return mapError("failed to create enrollment", err)
	}

	r.logger.Debug("enrollment created",
		zap.String("id", e.ID.String()),
		zap.String("group_id", e.GroupID.String()),
		zap.String("student_id", e.StudentID.String()))
	return nil
}

// GetByID retrieves an enrollment by ID
func (r *EnrollmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE id = $1`

	e, err := scanEnrollment(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(fmt.Sprintf("failed to get enrollment %s", id), err)
	}
	return e, nil
}

// GetByGroupAndStudent retrieves a student's enrollment in a group
func (r *EnrollmentRepository) GetByGroupAndStudent(ctx context.Context, groupID, studentID uuid.UUID) (*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE group_id = $1 AND student_id = $2`

	e, err := scanEnrollment(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, groupID, studentID))
	if err != nil {
		return nil, mapError("failed to get enrollment", err)
	}
	return e, nil
}

// ListByGroup retrieves the enrollments of a group
func (r *EnrollmentRepository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*models.Enrollment, error) {
	return r.list(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE group_id = $1 ORDER BY enrolled_at`, groupID)
}

// ListByStudent retrieves the enrollments of a student
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Enrollment, error) {
	return r.list(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE student_id = $1 ORDER BY enrolled_at DESC`, studentID)
}

func (r *EnrollmentRepository) list(ctx context.Context, query string, arg uuid.UUID) ([]*models.Enrollment, error) {
	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, arg)
	if err != nil {
		return nil, mapError("failed to query enrollments", err)
	}
	defer rows.Close()

	enrollments := []*models.Enrollment{}
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollment rows: %w", err)
	}

	return enrollments, nil
}

// Delete deletes an enrollment
func (r *EnrollmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return mapDeleteError("failed to delete enrollment", err)
	}
	if err := expectAffected("failed to delete enrollment", result); err != nil {
		return err
	}

	r.logger.Debug("enrollment deleted", zap.String("id", id.String()))
	return nil
}
