package handlers

import (
	"net/http"

	"github.com/upb/student-registration/auth"
	"github.com/upb/student-registration/dto"
	"github.com/upb/student-registration/middleware"
	"github.com/upb/student-registration/utils"
	"go.uber.org/zap"
)

// AuthHandler serves the session endpoints under /api/v1/auth
type AuthHandler struct {
	auth   Authenticator
	bridge *auth.CookieBridge
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authenticator Authenticator, bridge *auth.CookieBridge, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   authenticator,
		bridge: bridge,
		logger: logger,
	}
}

// HandleLogin handles POST /auth/login. The session token is returned only
// in the cookie, never in the body.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password, clientIP(r))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	http.SetCookie(w, h.bridge.BuildIssuance(result.Token))
	_ = utils.WriteOK(w, dto.LoginResponse{
		User:      dto.FromUser(result.User),
		ExpiresAt: result.ExpiresAt.UTC(),
	})
}

// HandleLogout handles POST /auth/logout. It always clears the cookie,
// whether or not the caller was signed in.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if p, ok := middleware.PrincipalFromContext(r.Context()); ok {
		h.auth.Logout(r.Context(), p)
	}

	http.SetCookie(w, h.bridge.BuildClearing())
	utils.WriteNoContent(w)
}

// HandleMe handles GET /auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	p, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	_ = utils.WriteOK(w, dto.FromPrincipal(p))
}
