package handlers

import (
	"net/http"

	"github.com/upb/student-registration/dto"
	"github.com/upb/student-registration/utils"
	"go.uber.org/zap"
)

// GradeHandler serves grades
type GradeHandler struct {
	grades GradeBook
	logger *zap.Logger
}

// NewGradeHandler creates a new GradeHandler
func NewGradeHandler(grades GradeBook, logger *zap.Logger) *GradeHandler {
	return &GradeHandler{grades: grades, logger: logger}
}

// HandleAssign handles POST /enrollments/{enrollmentID}/grades
func (h *GradeHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	enrollmentID, ok := pathID(w, r, "enrollmentID")
	if !ok {
		return
	}

	var req dto.GradeRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	grade, err := h.grades.Assign(r.Context(), actor, enrollmentID, req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteCreated(w, dto.FromGrade(grade))
}

// HandleListByEnrollment handles GET /enrollments/{enrollmentID}/grades
func (h *GradeHandler) HandleListByEnrollment(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	enrollmentID, ok := pathID(w, r, "enrollmentID")
	if !ok {
		return
	}

	grades, err := h.grades.ListByEnrollment(r.Context(), actor, enrollmentID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, dto.MapSlice(grades, dto.FromGrade))
}

// HandleUpdate handles PUT /grades/{gradeID}
func (h *GradeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "gradeID")
	if !ok {
		return
	}

	var req dto.GradeRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	grade, err := h.grades.Update(r.Context(), actor, id, req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, dto.FromGrade(grade))
}

// HandleDelete handles DELETE /grades/{gradeID}
func (h *GradeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "gradeID")
	if !ok {
		return
	}

	if err := h.grades.Delete(r.Context(), actor, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}

// HandleListMine handles GET /me/grades
func (h *GradeHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	grades, err := h.grades.ListMine(r.Context(), actor)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, dto.MapSlice(grades, dto.FromGrade))
}
