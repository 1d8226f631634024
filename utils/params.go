package utils

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	// DefaultPageLimit is used when a list request omits limit
	DefaultPageLimit = 50

	// MaxPageLimit caps the limit a client may ask for
	MaxPageLimit = 200
)

// Page is a limit/offset window over a list
type Page struct {
	Limit  int
	Offset int
}

// ParsePage reads limit and offset from the query string. A missing limit
// defaults to DefaultPageLimit and a larger one is clamped to MaxPageLimit.
func ParsePage(r *http.Request) (Page, error) {
	page := Page{Limit: DefaultPageLimit}
	q := r.URL.Query()

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return Page{}, fmt.Errorf("limit must be a positive integer")
		}
		page.Limit = min(limit, MaxPageLimit)
	}

	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return Page{}, fmt.Errorf("offset must be a non-negative integer")
		}
		page.Offset = offset
	}

	return page, nil
}

// URLParamUUID parses the named chi path parameter as a UUID
func URLParamUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %q is not a UUID", name, raw)
	}
	return id, nil
}
