package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/upb/student-registration/auth"
	"github.com/upb/student-registration/dto"
	"github.com/upb/student-registration/models"
	"github.com/upb/student-registration/repositories"
	"go.uber.org/zap"
)

// AttendanceService keeps meeting attendance sheets
type AttendanceService struct {
	txMgr       repositories.TransactionManager
	attendance  repositories.AttendanceRepository
	meetings    repositories.MeetingRepository
	groups      repositories.GroupRepository
	enrollments repositories.EnrollmentRepository
	activity    activityTrail
	logger      *zap.Logger
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(txMgr repositories.TransactionManager, repos *repositories.Repositories, recorder ActivityRecorder, logger *zap.Logger) *AttendanceService {
	return &AttendanceService{
		txMgr:       txMgr,
		attendance:  repos.Attendance,
		meetings:    repos.Meetings,
		groups:      repos.Groups,
		enrollments: repos.Enrollments,
		activity:    activityTrail{recorder: recorder, logger: logger},
		logger:      logger,
	}
}

// meetingFor loads a meeting and checks that actor may manage its group
func (s *AttendanceService) meetingFor(ctx context.Context, actor *auth.Principal, meetingID uuid.UUID) (*models.Meeting, error) {
	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, repoError(err, ErrMeetingNotFound, "failed to get meeting")
	}
	group, err := s.groups.GetByID(ctx, meeting.GroupID)
	if err != nil {
		return nil, repoError(err, ErrGroupNotFound, "failed to get group")
	}
	if !canTeach(actor, group) {
		return nil, ErrInsufficientPermissions
	}
	return meeting, nil
}

// Record stores the sheet for a meeting. Every listed student must be enrolled
// in the meeting's group; the whole sheet is written or none of it is.
func (s *AttendanceService) Record(ctx context.Context, actor *auth.Principal, meetingID uuid.UUID, req dto.RecordAttendanceRequest) ([]*models.Attendance, error) {
	if len(req.Entries) == 0 {
		return nil, ErrInvalidInput.WithDetail("entries", "at least one entry is required")
	}
	for _, e := range req.Entries {
		if !models.AttendanceStatus(e.Status).Valid() {
			return nil, ErrInvalidAttendance.WithDetail("status", e.Status)
		}
	}

	meeting, err := s.meetingFor(ctx, actor, meetingID)
	if err != nil {
		return nil, err
	}

	records, err := WithTransactionResult(ctx, s.txMgr, func(ctx context.Context) ([]*models.Attendance, error) {
		records := make([]*models.Attendance, 0, len(req.Entries))
		for _, e := range req.Entries {
			if _, err := s.enrollments.GetByGroupAndStudent(ctx, meeting.GroupID, e.StudentID); err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return nil, ErrStudentNotEnrolled.WithDetail("student_id", e.StudentID.String())
				}
				return nil, WrapInternal("failed to check enrollment", err)
			}

			record := models.NewAttendance(meetingID, e.StudentID, models.AttendanceStatus(e.Status))
			if err := s.attendance.Upsert(ctx, record); err != nil {
				return nil, WrapInternal("failed to record attendance", err)
			}
			records = append(records, record)
		}
		return records, nil
	})
	if err != nil {
		return nil, err
	}

	s.activity.record(ctx, actor, models.ActivityAttendanceChanged, "meeting", meetingID, map[string]int{"entries": len(records)})
	return records, nil
}

// ListByMeeting returns the attendance sheet of a meeting
func (s *AttendanceService) ListByMeeting(ctx context.Context, actor *auth.Principal, meetingID uuid.UUID) ([]*models.Attendance, error) {
	if _, err := s.meetingFor(ctx, actor, meetingID); err != nil {
		return nil, err
	}
	records, err := s.attendance.ListByMeeting(ctx, meetingID)
	if err != nil {
		return nil, WrapInternal("failed to list attendance", err)
	}
	return records, nil
}

// ListMine returns the acting student's attendance
func (s *AttendanceService) ListMine(ctx context.Context, actor *auth.Principal) ([]*models.Attendance, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	records, err := s.attendance.ListByStudent(ctx, actor.UserID)
	if err != nil {
		return nil, WrapInternal("failed to list attendance", err)
	}
	return records, nil
}
