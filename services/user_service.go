package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/upb/student-registration/auth"
	"github.com/upb/student-registration/models"
	"github.com/upb/student-registration/repositories"
	"go.uber.org/zap"
)

// UserService administers accounts
type UserService struct {
	users    repositories.UserRepository
	history  repositories.ActivityRepository
	activity activityTrail
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(users repositories.UserRepository, history repositories.ActivityRepository, recorder ActivityRecorder, logger *zap.Logger) *UserService {
	return &UserService{
		users:    users,
		history:  history,
		activity: activityTrail{recorder: recorder, logger: logger},
		logger:   logger,
	}
}

// Get returns a user by ID
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, ErrUserNotFound, "failed to get user")
	}
	return user, nil
}

// List returns a page of users
func (s *UserService) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, WrapInternal("failed to list users", err)
	}
	return users, nil
}

// Delete removes an account. Administrators cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, actor *auth.Principal, id uuid.UUID) error {
	if actor != nil && actor.UserID == id {
		return ErrForbidden.WithDetail("reason", "cannot delete own account")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return repoError(err, ErrUserNotFound, "failed to delete user")
	}

	s.activity.record(ctx, actor, models.ActivityUserDeleted, "user", id, nil)
	s.logger.Info("user deleted", zap.String("user_id", id.String()))
	return nil
}

// ListActivity returns what a user has done, newest first
func (s *UserService) ListActivity(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.ActivityLog, error) {
	entries, err := s.history.ListByActor(ctx, userID, limit, offset)
	if err != nil {
		return nil, WrapInternal("failed to list activity", err)
	}
	return entries, nil
}
