package handlers

import (
	"net/http"

	"github.com/upb/student-registration/dto"
	"github.com/upb/student-registration/utils"
	"go.uber.org/zap"
)

// AttendanceHandler serves meeting attendance sheets
type AttendanceHandler struct {
	attendance AttendanceKeeper
	logger     *zap.Logger
}

// NewAttendanceHandler creates a new AttendanceHandler
func NewAttendanceHandler(attendance AttendanceKeeper, logger *zap.Logger) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance, logger: logger}
}

// HandleRecord handles PUT /meetings/{meetingID}/attendance
func (h *AttendanceHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	meetingID, ok := pathID(w, r, "meetingID")
	if !ok {
		return
	}

	var req dto.RecordAttendanceRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	records, err := h.attendance.Record(r.Context(), actor, meetingID, req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, dto.MapSlice(records, dto.FromAttendance))
}

// HandleListByMeeting handles GET /meetings/{meetingID}/attendance
func (h *AttendanceHandler) HandleListByMeeting(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	meetingID, ok := pathID(w, r, "meetingID")
	if !ok {
		return
	}

	records, err := h.attendance.ListByMeeting(r.Context(), actor, meetingID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, dto.MapSlice(records, dto.FromAttendance))
}

// HandleListMine handles GET /me/attendance
func (h *AttendanceHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	records, err := h.attendance.ListMine(r.Context(), actor)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, dto.MapSlice(records, dto.FromAttendance))
}
