package services

import (
	"context"
	"errors"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/upb/student-registration/auth"
	"github.com/upb/student-registration/models"
	"github.com/upb/student-registration/repositories"
	"go.uber.org/zap"
)

// ActivityRecorder queues activity log entries
type ActivityRecorder interface {
	Record(entry *models.ActivityLog) error
}

// activityTrail builds activity entries for the acting principal.
// A nil recorder disables recording.
type activityTrail struct {
	recorder ActivityRecorder
	logger   *zap.Logger
}

func (a activityTrail) record(ctx context.Context, actor *auth.Principal, action models.ActivityAction, resourceType string, resourceID uuid.UUID, details interface{}) {
	if a.recorder == nil {
		return
	}

	entry := models.NewActivityLog("", action, resourceType).WithRequest(requestID(ctx), "")
	if actor != nil {
		entry.Actor = actor.Identifier
		entry.WithActor(actor.UserID)
	}
	if resourceID != uuid.Nil {
		entry.WithResource(resourceID)
	}
	if details != nil {
		if err := entry.WithDetails(details); err != nil {
			a.logger.Warn("failed to encode activity details", zap.String("action", string(action)), zap.Error(err))
		}
	}
	a.queue(entry)
}

func (a activityTrail) queue(entry *models.ActivityLog) {
	if a.recorder == nil {
		return
	}
	if err := a.recorder.Record(entry); err != nil {
		a.logger.Warn("failed to queue activity entry",
			zap.String("action", string(entry.Action)),
			zap.Error(err))
	}
}

// repoError translates a repository error into a domain error.
// ErrNotFound becomes notFound; anything else is internal.
func repoError(err error, notFound *DomainError, op string) error {
	if errors.Is(err, repositories.ErrNotFound) && notFound != nil {
		return notFound
	}
	if errors.Is(err, repositories.ErrReferenced) {
		return ErrStillReferenced
	}
	return WrapInternal(op, err)
}

// isAdmin reports whether the principal is an administrator
func isAdmin(actor *auth.Principal) bool {
	return actor.HasRole(string(models.RoleAdmin))
}

// canTeach reports whether the principal may manage a group's meetings,
// attendance and grades: administrators always, teachers only for their own groups.
func canTeach(actor *auth.Principal, group *models.Group) bool {
	if isAdmin(actor) {
		return true
	}
	return actor != nil && actor.HasRole(string(models.RoleTeacher)) && group.IsTaughtBy(actor.UserID)
}

func requestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}
