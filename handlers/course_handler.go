package handlers

import (
	"net/http"

	"github.com/upb/student-registration/dto"
	"github.com/upb/student-registration/utils"
	"go.uber.org/zap"
)

// CourseHandler serves the course catalogue under /api/v1/courses
type CourseHandler struct {
	courses CourseCatalog
	logger  *zap.Logger
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(courses CourseCatalog, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{courses: courses, logger: logger}
}

// HandleList handles GET /courses
func (h *CourseHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParams(w, r)
	if !ok {
		return
	}

	courses, err := h.courses.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WritePage(w, dto.MapSlice(courses, dto.FromCourse), page)
}

// HandleGet handles GET /courses/{courseID}
func (h *CourseHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "courseID")
	if !ok {
		return
	}

	course, err := h.courses.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, dto.FromCourse(course))
}

// HandleCreate handles POST /courses
func (h *CourseHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentPrincipal(w, r)
	if !ok {
		return
	}

	var req dto.CourseRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	course, err := h.courses.Create(r.Context(), actor, req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteCreated(w, dto.FromCourse(course))
}

// HandleUpdate handles PUT /courses/{courseID}
func (h *CourseHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "courseID")
	if !ok {
		return
	}

	var req dto.CourseRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	course, err := h.courses.Update(r.Context(), actor, id, req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, dto.FromCourse(course))
}

// HandleDelete handles DELETE /courses/{courseID}
func (h *CourseHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentPrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "courseID")
	if !ok {
		return
	}

	if err := h.courses.Delete(r.Context(), actor, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}
