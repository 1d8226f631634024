package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/upb/student-registration/dto"
	"github.com/upb/student-registration/utils"
	"go.uber.org/zap"
)

// UserHandler serves account administration under /api/v1/users
type UserHandler struct {
	auth   Authenticator
	users  UserDirectory
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(authenticator Authenticator, users UserDirectory, logger *zap.Logger) *UserHandler {
	return &UserHandler{auth: authenticator, users: users, logger: logger}
}

// HandleCreate handles POST /users
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	user, err := h.auth.Register(r.Context(), actor, req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteCreated(w, dto.FromUser(user))
}

// HandleList handles GET /users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParams(w, r)
	if !ok {
		return
	}

	users, err := h.users.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WritePage(w, dto.MapSlice(users, dto.FromUser), page)
}

// HandleGet handles GET /users/{userID}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, dto.FromUser(user))
}

// HandleDelete handles DELETE /users/{userID}
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	if err := h.users.Delete(r.Context(), actor, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}

// HandleActivity handles GET /users/{userID}/activity
func (h *UserHandler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	h.writeActivity(w, r, id)
}

// HandleMyActivity handles GET /me/activity
func (h *UserHandler) HandleMyActivity(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	h.writeActivity(w, r, actor.UserID)
}

func (h *UserHandler) writeActivity(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	page, ok := pageParams(w, r)
	if !ok {
		return
	}

	entries, err := h.users.ListActivity(r.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WritePage(w, dto.MapSlice(entries, dto.FromActivity), page)
}
