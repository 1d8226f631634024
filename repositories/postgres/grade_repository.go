package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/student-registration/models"
	"github.com/upb/student-registration/repositories"
	"go.uber.org/zap"
)

const gradeColumns = `id, enrollment_id, value, description, graded_at, graded_by`

// GradeRepository implements the repositories.GradeRepository interface
type GradeRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewGradeRepository creates a new grade repository
func NewGradeRepository(db *DB, logger *zap.Logger) repositories.GradeRepository {
	return &GradeRepository{
		db:     db,
		logger: logger,
	}
}

func scanGrade(s rowScanner) (*models.Grade, error) {
	g := &models.Grade{}
	if err := s.Scan(&g.ID, &g.EnrollmentID, &g.Value, &g.Description, &g.GradedAt, &g.GradedBy); err != nil {
		return nil, err
	}
	return g, nil
}

// Create creates a new grade
func (r *GradeRepository) Create(ctx context.Context, g *models.Grade) error {
	query := `
		INSERT INTO grades (` + gradeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		g.ID,
		g.EnrollmentID,
		g.Value,
		g.Description,
		g.GradedAt,
		g.GradedBy,
	)
	if err != nil {
		return mapError("failed to create grade", err)
	}

	r.logger.Debug("grade created", zap.String("id", g.ID.String()), zap.String("enrollment_id", g.EnrollmentID.String()))
	return nil
}

// GetByID retrieves a grade by ID
func (r *GradeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Grade, error) {
	query := `SELECT ` + gradeColumns + ` FROM grades WHERE id = $1`

	g, err := scanGrade(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(fmt.Sprintf("failed to get grade %s", id), err)
	}
	return g, nil
}

// ListByEnrollment retrieves the grades of one enrollment
func (r *GradeRepository) ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]*models.Grade, error) {
	query := `SELECT ` + gradeColumns + ` FROM grades WHERE enrollment_id = $1 ORDER BY graded_at`
	return r.list(ctx, query, enrollmentID)
}

// ListByStudent retrieves every grade of a student across enrollments
func (r *GradeRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Grade, error) {
	query := `
		SELECT g.id, g.enrollment_id, g.value, g.description, g.graded_at, g.graded_by
		FROM grades g
		JOIN enrollments e ON e.id = g.enrollment_id
		WHERE e.student_id = $1
		ORDER BY g.graded_at DESC
	`
	return r.list(ctx, query, studentID)
}

func (r *GradeRepository) list(ctx context.Context, query string, arg uuid.UUID) ([]*models.Grade, error) {
	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, arg)
	if err != nil {
		return nil, mapError("failed to query grades", err)
	}
	defer rows.Close()

	grades := []*models.Grade{}
	for rows.Next() {
		g, err := scanGrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan grade: %w", err)
		}
		grades = append(grades, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating grade rows: %w", err)
	}

	return grades, nil
}

// Update updates a grade's value and description
func (r *GradeRepository) Update(ctx context.Context, g *models.Grade) error {
	query := `
		UPDATE grades
		SET value = $2,
		    description = $3,
		    graded_at = $4,
		    graded_by = $5
		WHERE id = $1
	`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, g.ID, g.Value, g.Description, g.GradedAt, g.GradedBy)
	if err != nil {
		return mapError("failed to update grade", err)
	}
	if err := expectAffected("failed to update grade", result); err != nil {
		return err
	}

	r.logger.Debug("grade updated", zap.String("id", g.ID.String()))
	return nil
}

// Delete deletes a grade
func (r *GradeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM grades WHERE id = $1`, id)
	if err != nil {
		return mapDeleteError("failed to delete grade", err)
	}
	if err := expectAffected("failed to delete grade", result); err != nil {
		return err
	}

	r.logger.Debug("grade deleted", zap.String("id", id.String()))
	return nil
}
