package handlers

import (
	"net/http"

	"github.com/upb/student-registration/dto"
	"github.com/upb/student-registration/utils"
	"go.uber.org/zap"
)

// MeetingHandler serves group meetings
type MeetingHandler struct {
	meetings MeetingScheduler
	logger   *zap.Logger
}

// NewMeetingHandler creates a new MeetingHandler
func NewMeetingHandler(meetings MeetingScheduler, logger *zap.Logger) *MeetingHandler {
	return &MeetingHandler{meetings: meetings, logger: logger}
}

// HandleListByGroup handles GET /groups/{groupID}/meetings
func (h *MeetingHandler) HandleListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}

	meetings, err := h.meetings.ListByGroup(r.Context(), groupID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, dto.MapSlice(meetings, dto.FromMeeting))
}

// HandleCreate handles POST /groups/{groupID}/meetings
func (h *MeetingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}

	var req dto.MeetingRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	meeting, err := h.meetings.Create(r.Context(), actor, groupID, req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteCreated(w, dto.FromMeeting(meeting))
}

// HandleGet handles GET /meetings/{meetingID}
func (h *MeetingHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "meetingID")
	if !ok {
		return
	}

	meeting, err := h.meetings.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, dto.FromMeeting(meeting))
}

// HandleUpdate handles PUT /meetings/{meetingID}
func (h *MeetingHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "meetingID")
	if !ok {
		return
	}

	var req dto.MeetingRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	meeting, err := h.meetings.Update(r.Context(), actor, id, req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, dto.FromMeeting(meeting))
}

// HandleDelete handles DELETE /meetings/{meetingID}
func (h *MeetingHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "meetingID")
	if !ok {
		return
	}

	if err := h.meetings.Delete(r.Context(), actor, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}
