package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/student-registration/models"
	"github.com/upb/student-registration/repositories"
	"go.uber.org/zap"
)

// ActivityRepository implements the repositories.ActivityRepository interface
type ActivityRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewActivityRepository creates a new activity log repository
func NewActivityRepository(db *DB, logger *zap.Logger) repositories.ActivityRepository {
	return &ActivityRepository{
		db:     db,
		logger: logger,
	}
}

// Insert appends an activity log entry
func (r *ActivityRepository) Insert(ctx context.Context, entry *models.ActivityLog) error {
	query := `
		INSERT INTO activity_log (
			id, actor_id, actor, action, resource_type, resource_id,
			details, ip_address, request_id, timestamp
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	var details interface{}
	if len(entry.Details) > 0 {
		details = []byte(entry.Details)
	}

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		entry.ID,
		nullableUUID(entry.ActorID),
		entry.Actor,
		entry.Action,
		entry.ResourceType,
		nullableUUID(entry.ResourceID),
		details,
		entry.IPAddress,
		entry.RequestID,
		entry.Timestamp,
	)
	if err != nil {
		return mapError("failed to insert activity log", err)
	}
	return nil
}

// ListByActor retrieves an actor's activity, newest first
func (r *ActivityRepository) ListByActor(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]*models.ActivityLog, error) {
	query := `
		SELECT id, actor_id, actor, action, resource_type, resource_id,
		       details, COALESCE(ip_address, ''), COALESCE(request_id, ''), timestamp
		FROM activity_log
		WHERE actor_id = $1
		ORDER BY timestamp DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, actorID, limit, offset)
	if err != nil {
		return nil, mapError("failed to query activity log", err)
	}
	defer rows.Close()

	entries := []*models.ActivityLog{}
	for rows.Next() {
		e := &models.ActivityLog{}
		var actor, resource uuid.NullUUID
		var details []byte
		if err := rows.Scan(&e.ID, &actor, &e.Actor, &e.Action, &e.ResourceType, &resource,
			&details, &e.IPAddress, &e.RequestID, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan activity log: %w", err)
		}
		if actor.Valid {
			e.ActorID = &actor.UUID
		}
		if resource.Valid {
			e.ResourceID = &resource.UUID
		}
		e.Details = details
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity log rows: %w", err)
	}

	return entries, nil
}
