package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/upb/student-registration/auth"
	"github.com/upb/student-registration/utils"
	"go.uber.org/zap"
)

// TokenExtractor pulls the raw session token out of a request
type TokenExtractor interface {
	Extract(r *http.Request) (string, bool)
}

// TokenVerifier checks a session token and returns its subject
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AuthMiddleware authenticates requests from the session cookie and
// enforces authentication and roles on protected routes.
type AuthMiddleware struct {
	extractor   TokenExtractor
	verifier    TokenVerifier
	loader      auth.PrincipalLoader
	loadTimeout time.Duration
	logger      *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware. A non-positive loadTimeout
// leaves the principal lookup bounded only by the request context.
func NewAuthMiddleware(extractor TokenExtractor, verifier TokenVerifier, loader auth.PrincipalLoader, loadTimeout time.Duration, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		extractor:   extractor,
		verifier:    verifier,
		loader:      loader,
		loadTimeout: loadTimeout,
		logger:      logger,
	}
}

// Authenticate resolves the session cookie into a Principal and stores it in the
// request context. It never rejects a request: any failure leaves the request
// anonymous and is logged.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p := m.authenticate(r); p != nil {
			r = r.WithContext(WithPrincipal(r.Context(), p))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) authenticate(r *http.Request) *auth.Principal {
	token, ok := m.extractor.Extract(r)
	if !ok {
		return nil
	}

	requestID := GetRequestIDFromContext(r.Context())

	subject, err := m.verifier.Verify(token)
	if err != nil {
		m.logger.Warn("session token rejected",
			zap.String("request_id", requestID),
			zap.String("kind", auth.ErrorKind(err)),
			zap.Error(err))
		return nil
	}

	ctx := r.Context()
	if m.loadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.loadTimeout)
		defer cancel()
	}

	p, err := m.loader.LoadByIdentifier(ctx, subject)
	switch {
	case errors.Is(err, auth.ErrPrincipalNotFound), err == nil && p == nil:
		m.logger.Warn("session subject has no account",
			zap.String("request_id", requestID),
			zap.String("kind", "stale_credential"))
		return nil
	case err != nil:
		m.logger.Error("failed to load session principal",
			zap.String("request_id", requestID),
			zap.String("kind", "principal_load_failed"),
			zap.Error(err))
		return nil
	}

	m.logger.Debug("authentication successful",
		zap.String("request_id", requestID),
		zap.String("user_id", p.UserID.String()))
	return p
}

// RequireAuth rejects requests without an authenticated principal
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects requests whose principal holds none of roles.
// Anonymous requests get 401, authenticated ones 403.
func (m *AuthMiddleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			p, ok := PrincipalFromContext(ctx)
			if !ok {
				_ = utils.WriteUnauthorized(w, "Authentication required")
				return
			}

			if !p.HasRole(roles...) {
				m.logger.Warn("insufficient permissions",
					zap.String("request_id", GetRequestIDFromContext(ctx)),
					zap.Strings("required_roles", roles),
					zap.Strings("principal_roles", p.Roles))
				_ = utils.WriteForbidden(w, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
