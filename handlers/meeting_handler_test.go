package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/upb/student-registration/dto"
	"github.com/upb/student-registration/models"
	"github.com/upb/student-registration/services"
	"go.uber.org/zap"
)

func TestMeetingHandler_Create(t *testing.T) {
	meetings := new(MockMeetingScheduler)
	h := NewMeetingHandler(meetings, zap.NewNop())
	teacher := testPrincipal(models.RoleTeacher)
	groupID := uuid.New()
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	meeting := models.NewMeeting(groupID, "Intro", start, start.Add(90*time.Minute), "A-101")

	meetings.On("Create", mock.Anything, teacher, groupID, mock.MatchedBy(func(req dto.MeetingRequest) bool {
		return req.Topic == "Intro" && req.StartsAt.Equal(start) && req.EndsAt.Equal(start.Add(90*time.Minute))
	})).Return(meeting, nil)

	w := serve(http.MethodPost, "/groups/{groupID}/meetings", "/groups/"+groupID.String()+"/meetings",
		`{"topic":"Intro","starts_at":"2026-03-02T08:00:00Z","ends_at":"2026-03-02T09:30:00Z","room":"A-101"}`,
		h.HandleCreate, teacher)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"room":"A-101"`)
	meetings.AssertExpectations(t)
}

func TestMeetingHandler_CreateEndsBeforeStart(t *testing.T) {
	meetings := new(MockMeetingScheduler)
	h := NewMeetingHandler(meetings, zap.NewNop())

	w := serve(http.MethodPost, "/groups/{groupID}/meetings", "/groups/"+uuid.NewString()+"/meetings",
		`{"topic":"Intro","starts_at":"2026-03-02T09:00:00Z","ends_at":"2026-03-02T08:00:00Z"}`,
		h.HandleCreate, testPrincipal(models.RoleTeacher))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ends_at")
	meetings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMeetingHandler_ReadsAndWrites(t *testing.T) {
	meetings := new(MockMeetingScheduler)
	h := NewMeetingHandler(meetings, zap.NewNop())
	teacher := testPrincipal(models.RoleTeacher)
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	meeting := models.NewMeeting(uuid.New(), "Intro", start, start.Add(time.Hour), "")

	meetings.On("ListByGroup", mock.Anything, meeting.GroupID).Return([]*models.Meeting{meeting}, nil)
	meetings.On("Get", mock.Anything, meeting.ID).Return(meeting, nil)
	meetings.On("Update", mock.Anything, teacher, meeting.ID, mock.Anything).Return(nil, services.ErrInsufficientPermissions)
	meetings.On("Delete", mock.Anything, teacher, meeting.ID).Return(nil)

	w := serve(http.MethodGet, "/groups/{groupID}/meetings", "/groups/"+meeting.GroupID.String()+"/meetings", "", h.HandleListByGroup, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(http.MethodGet, "/meetings/{meetingID}", "/meetings/"+meeting.ID.String(), "", h.HandleGet, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(http.MethodPut, "/meetings/{meetingID}", "/meetings/"+meeting.ID.String(),
		`{"topic":"Moved","starts_at":"2026-03-02T10:00:00Z","ends_at":"2026-03-02T11:00:00Z"}`, h.HandleUpdate, teacher)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(http.MethodDelete, "/meetings/{meetingID}", "/meetings/"+meeting.ID.String(), "", h.HandleDelete, teacher)
	assert.Equal(t, http.StatusNoContent, w.Code)
	meetings.AssertExpectations(t)
}
