package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/upb/student-registration/auth"
	"github.com/upb/student-registration/dto"
	"github.com/upb/student-registration/models"
	"github.com/upb/student-registration/repositories"
	"go.uber.org/zap"
)

// MeetingService schedules class meetings for groups
type MeetingService struct {
	meetings repositories.MeetingRepository
	groups   repositories.GroupRepository
	activity activityTrail
	logger   *zap.Logger
}

// NewMeetingService creates a new MeetingService
func NewMeetingService(repos *repositories.Repositories, recorder ActivityRecorder, logger *zap.Logger) *MeetingService {
	return &MeetingService{
		meetings: repos.Meetings,
		groups:   repos.Groups,
		activity: activityTrail{recorder: recorder, logger: logger},
		logger:   logger,
	}
}

func validateSchedule(req dto.MeetingRequest) error {
	if !req.EndsAt.After(req.StartsAt) {
		return ErrInvalidSchedule
	}
	return nil
}

// groupFor loads a group and checks that actor may manage it
func (s *MeetingService) groupFor(ctx context.Context, actor *auth.Principal, groupID uuid.UUID) (*models.Group, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, repoError(err, ErrGroupNotFound, "failed to get group")
	}
	if !canTeach(actor, group) {
		return nil, ErrInsufficientPermissions
	}
	return group, nil
}

// Create schedules a meeting
func (s *MeetingService) Create(ctx context.Context, actor *auth.Principal, groupID uuid.UUID, req dto.MeetingRequest) (*models.Meeting, error) {
	if err := validateSchedule(req); err != nil {
		return nil, err
	}
	if _, err := s.groupFor(ctx, actor, groupID); err != nil {
		return nil, err
	}

	meeting := models.NewMeeting(groupID, strings.TrimSpace(req.Topic), req.StartsAt.UTC(), req.EndsAt.UTC(), strings.TrimSpace(req.Room))
	if err := s.meetings.Create(ctx, meeting); err != nil {
		return nil, repoError(err, ErrGroupNotFound, "failed to create meeting")
	}

	s.activity.record(ctx, actor, models.ActivityMeetingCreated, "meeting", meeting.ID, map[string]string{"group_id": groupID.String()})
	return meeting, nil
}

// Get returns a meeting by ID
func (s *MeetingService) Get(ctx context.Context, id uuid.UUID) (*models.Meeting, error) {
	meeting, err := s.meetings.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, ErrMeetingNotFound, "failed to get meeting")
	}
	return meeting, nil
}

// ListByGroup returns a group's meetings in chronological order
func (s *MeetingService) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*models.Meeting, error) {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, repoError(err, ErrGroupNotFound, "failed to get group")
	}
	meetings, err := s.meetings.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, WrapInternal("failed to list meetings", err)
	}
	return meetings, nil
}

// Update reschedules a meeting
func (s *MeetingService) Update(ctx context.Context, actor *auth.Principal, id uuid.UUID, req dto.MeetingRequest) (*models.Meeting, error) {
	if err := validateSchedule(req); err != nil {
		return nil, err
	}

	meeting, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.groupFor(ctx, actor, meeting.GroupID); err != nil {
		return nil, err
	}

	meeting.Topic = strings.TrimSpace(req.Topic)
	meeting.StartsAt = req.StartsAt.UTC()
	meeting.EndsAt = req.EndsAt.UTC()
	meeting.Room = strings.TrimSpace(req.Room)
	meeting.UpdatedAt = time.Now()

	if err := s.meetings.Update(ctx, meeting); err != nil {
		return nil, repoError(err, ErrMeetingNotFound, "failed to update meeting")
	}

	s.activity.record(ctx, actor, models.ActivityMeetingUpdated, "meeting", meeting.ID, nil)
	return meeting, nil
}

// Delete cancels a meeting and its attendance sheet
func (s *MeetingService) Delete(ctx context.Context, actor *auth.Principal, id uuid.UUID) error {
	meeting, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.groupFor(ctx, actor, meeting.GroupID); err != nil {
		return err
	}

	if err := s.meetings.Delete(ctx, id); err != nil {
		return repoError(err, ErrMeetingNotFound, "failed to delete meeting")
	}

	s.activity.record(ctx, actor, models.ActivityMeetingDeleted, "meeting", id, nil)
	return nil
}
