package handlers

import (
	"net"
	"net/http"

	"github.com/google/uuid"
	"github.com/upb/student-registration/auth"
	"github.com/upb/student-registration/middleware"
	"github.com/upb/student-registration/utils"
	"go.uber.org/zap"
)

// currentPrincipal returns the authenticated caller, writing 401 when there is none
func currentPrincipal(w http.ResponseWriter, r *http.Request) (*auth.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return nil, false
	}
	return p, true
}

// decodeRequest decodes and validates a JSON body, writing 400 on failure
func decodeRequest(w http.ResponseWriter, r *http.Request, dst interface{}, logger *zap.Logger) bool {
	if err := utils.DecodeJSON(w, r, dst); err != nil {
		HandleValidationError(w, err, logger)
		return false
	}
	if err := utils.ValidateStruct(dst); err != nil {
		HandleValidationError(w, err, logger)
		return false
	}
	return true
}

// pathID parses a UUID path parameter, writing 400 when it is malformed
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := utils.URLParamUUID(r, name)
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return uuid.Nil, false
	}
	return id, true
}

// pageParams parses limit and offset, writing 400 when they are malformed
func pageParams(w http.ResponseWriter, r *http.Request) (utils.Page, bool) {
	page, err := utils.ParsePage(r)
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return utils.Page{}, false
	}
	return page, true
}

// clientIP returns the caller address without its port. chi's RealIP
// middleware has already replaced RemoteAddr when a proxy header is present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
