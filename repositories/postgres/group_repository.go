package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/student-registration/models"
	"github.com/upb/student-registration/repositories"
	"go.uber.org/zap"
)

const groupColumns = `id, course_id, name, semester, teacher_id, capacity, created_at, updated_at`

// GroupRepository implements the repositories.GroupRepository interface
type GroupRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *DB, logger *zap.Logger) repositories.GroupRepository {
	return &GroupRepository{
		db:     db,
		logger: logger,
	}
}

func scanGroup(s rowScanner) (*models.Group, error) {
	g := &models.Group{}
	var teacherID uuid.NullUUID
	if err := s.Scan(&g.ID, &g.CourseID, &g.Name, &g.Semester, &teacherID, &g.Capacity, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	if teacherID.Valid {
		g.TeacherID = &teacherID.UUID
	}
	return g, nil
}

func nullableUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

// Create creates a new group
func (r *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	query := `
		INSERT INTO course_groups (` + groupColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		group.ID,
		group.CourseID,
		group.Name,
		group.Semester,
		nullableUUID(group.TeacherID),
		group.Capacity,
		group.CreatedAt,
		group.UpdatedAt,
	)
	if err != nil {
		return mapError("failed to create group", err)
	}

	r.logger.Debug("group created", zap.String("id", group.ID.String()), zap.String("course_id", group.CourseID.String()))
	return nil
}

// GetByID retrieves a group by ID
func (r *GroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM course_groups WHERE id = $1`

	group, err := scanGroup(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(fmt.Sprintf("failed to get group %s", id), err)
	}
	return group, nil
}

// GetByIDForUpdate retrieves a group and locks its row for the rest of the transaction
func (r *GroupRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM course_groups WHERE id = $1 FOR UPDATE`

	group, err := scanGroup(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(fmt.Sprintf("failed to lock group %s", id), err)
	}
	return group, nil
}

// ListByCourse retrieves all groups of a course
func (r *GroupRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*models.Group, error) {
	query := `
		SELECT ` + groupColumns + `
		FROM course_groups
		WHERE course_id = $1
		ORDER BY semester DESC, name
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, mapError("failed to query groups", err)
	}
	defer rows.Close()

	groups := []*models.Group{}
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group rows: %w", err)
	}

	return groups, nil
}

// Update updates a group
func (r *GroupRepository) Update(ctx context.Context, group *models.Group) error {
	query := `
		UPDATE course_groups
		SET name = $2,
		    semester = $3,
		    teacher_id = $4,
		    capacity = $5,
		    updated_at = $6
		WHERE id = $1
	`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		group.ID,
		group.Name,
		group.Semester,
		nullableUUID(group.TeacherID),
		group.Capacity,
		group.UpdatedAt,
	)
	if err != nil {
		return mapError("failed to update group", err)
	}
	if err := expectAffected("failed to update group", result); err != nil {
		return err
	}

	r.logger.Debug("group updated", zap.String("id", group.ID.String()))
	return nil
}

// Delete deletes a group
func (r *GroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM course_groups WHERE id = $1`, id)
	if err != nil {
		return mapDeleteError("failed to delete group", err)
	}
	if err := expectAffected("failed to delete group", result); err != nil {
		return err
	}

	r.logger.Debug("group deleted", zap.String("id", id.String()))
	return nil
}

// CountEnrollments returns the number of students enrolled in a group
func (r *GroupRepository) CountEnrollments(ctx context.Context, groupID uuid.UUID) (int, error) {
	var count int
	err := GetExecutor(ctx, r.db).
		QueryRowContext(ctx, `SELECT COUNT(*) FROM enrollments WHERE group_id = $1`, groupID).
		Scan(&count)
	if err != nil {
		return 0, mapError("failed to count enrollments", err)
	}
	return count, nil
}
