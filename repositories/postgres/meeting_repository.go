package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/student-registration/models"
	"github.com/upb/student-registration/repositories"
	"go.uber.org/zap"
)

const meetingColumns = `id, group_id, topic, starts_at, ends_at, room, created_at, updated_at`

// MeetingRepository implements the repositories.MeetingRepository interface
type MeetingRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *DB, logger *zap.Logger) repositories.MeetingRepository {
	return &MeetingRepository{
		db:     db,
		logger: logger,
	}
}

func scanMeeting(s rowScanner) (*models.Meeting, error) {
	m := &models.Meeting{}
	if err := s.Scan(&m.ID, &m.GroupID, &m.Topic, &m.StartsAt, &m.EndsAt, &m.Room, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return m, nil
}

// Create creates a new meeting
func (r *MeetingRepository) Create(ctx context.Context, m *models.Meeting) error {
	query := `
		INSERT INTO meetings (` + meetingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		m.ID,
		m.GroupID,
		m.Topic,
		m.StartsAt,
		m.EndsAt,
		m.Room,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return mapError("failed to create meeting", err)
	}

	r.logger.Debug("meeting created", zap.String("id", m.ID.String()), zap.String("group_id", m.GroupID.String()))
	return nil
}

// GetByID retrieves a meeting by ID
func (r *MeetingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE id = $1`

	m, err := scanMeeting(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(fmt.Sprintf("failed to get meeting %s", id), err)
	}
	return m, nil
}

// ListByGroup retrieves the meetings of a group in chronological order
func (r *MeetingRepository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*models.Meeting, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings
		WHERE group_id = $1
		ORDER BY starts_at
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, mapError("failed to query meetings", err)
	}
	defer rows.Close()

	meetings := []*models.Meeting{}
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meeting: %w", err)
		}
		meetings = append(meetings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meeting rows: %w", err)
	}

	return meetings, nil
}

// Update updates a meeting
func (r *MeetingRepository) Update(ctx context.Context, m *models.Meeting) error {
	query := `
		UPDATE meetings
		SET topic = $2,
		    starts_at = $3,
		    ends_at = $4,
		    room = $5,
		    updated_at = $6
		WHERE id = $1
	`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		m.ID,
		m.Topic,
		m.StartsAt,
		m.EndsAt,
		m.Room,
		m.UpdatedAt,
	)
	if err != nil {
		return mapError("failed to update meeting", err)
	}
	if err := expectAffected("failed to update meeting", result); err != nil {
		return err
	}

	r.logger.Debug("meeting updated", zap.String("id", m.ID.String()))
	return nil
}

// Delete deletes a meeting
func (r *MeetingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM meetings WHERE id = $1`, id)
	if err != nil {
		return mapDeleteError("failed to delete meeting", err)
	}
	if err := expectAffected("failed to delete meeting", result); err != nil {
		return err
	}

	r.logger.Debug("meeting deleted", zap.String("id", id.String()))
	return nil
}
