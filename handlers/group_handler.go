package handlers

import (
	"net/http"

	"github.com/upb/student-registration/dto"
	"github.com/upb/student-registration/utils"
	"go.uber.org/zap"
)

// GroupHandler serves course groups
type GroupHandler struct {
	groups GroupManager
	logger *zap.Logger
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(groups GroupManager, logger *zap.Logger) *GroupHandler {
	return &GroupHandler{groups: groups, logger: logger}
}

// HandleListByCourse handles GET /courses/{courseID}/groups
func (h *GroupHandler) HandleListByCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseID")
	if !ok {
		return
	}

	groups, err := h.groups.ListByCourse(r.Context(), courseID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, dto.MapSlice(groups, dto.FromGroup))
}

// HandleCreate handles POST /courses/{courseID}/groups
func (h *GroupHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	courseID, ok := pathID(w, r, "courseID")
	if !ok {
		return
	}

	var req dto.GroupRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	group, err := h.groups.Create(r.Context(), actor, courseID, req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteCreated(w, dto.FromGroup(group))
}

// HandleGet handles GET /groups/{groupID}
func (h *GroupHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}

	group, err := h.groups.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, dto.FromGroup(group))
}

// HandleUpdate handles PUT /groups/{groupID}
func (h *GroupHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}

	var req dto.GroupRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	group, err := h.groups.Update(r.Context(), actor, id, req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, dto.FromGroup(group))
}

// HandleDelete handles DELETE /groups/{groupID}
func (h *GroupHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}

	if err := h.groups.Delete(r.Context(), actor, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}
