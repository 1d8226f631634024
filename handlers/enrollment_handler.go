package handlers

import (
	"errors"
	"net/http"

	"github.com/upb/student-registration/dto"
	"github.com/upb/student-registration/utils"
	"go.uber.org/zap"
)

// EnrollmentHandler serves enrollments
type EnrollmentHandler struct {
	enrollments EnrollmentManager
	logger      *zap.Logger
}

// NewEnrollmentHandler creates a new EnrollmentHandler
func NewEnrollmentHandler(enrollments EnrollmentManager, logger *zap.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, logger: logger}
}

// HandleEnroll handles POST /groups/{groupID}/enrollments. Students may send
// an empty body to enroll themselves.
func (h *EnrollmentHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}

	var req dto.EnrollRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil && !errors.Is(err, utils.ErrEmptyBody) {
		HandleValidationError(w, err, h.logger)
		return
	}

	enrollment, err := h.enrollments.Enroll(r.Context(), actor, groupID, req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteCreated(w, dto.FromEnrollment(enrollment))
}

// HandleListByGroup handles GET /groups/{groupID}/enrollments
func (h *EnrollmentHandler) HandleListByGroup(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}

	enrollments, err := h.enrollments.ListByGroup(r.Context(), actor, groupID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, dto.MapSlice(enrollments, dto.FromEnrollment))
}

// HandleWithdraw handles DELETE /enrollments/{enrollmentID}
func (h *EnrollmentHandler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "enrollmentID")
	if !ok {
		return
	}

	if err := h.enrollments.Withdraw(r.Context(), actor, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}

// HandleListMine handles GET /me/enrollments
func (h *EnrollmentHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	enrollments, err := h.enrollments.ListMine(r.Context(), actor)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, dto.MapSlice(enrollments, dto.FromEnrollment))
}
