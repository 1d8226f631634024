package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/student-registration/app"
	"github.com/upb/student-registration/handlers"
	"github.com/upb/student-registration/models"
	"github.com/upb/student-registration/utils"
)

var (
	admin   = string(models.RoleAdmin)
	teacher = string(models.RoleTeacher)
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()
	gate := deps.AuthMiddleware

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS middleware. Credentials are allowed so the session cookie travels
	// with cross-origin requests from the configured front ends.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Every request passes the gate; it never rejects, only attaches a principal
	r.Use(gate.Authenticate)

	// Health check endpoints
	health := handlers.NewHealthHandler(deps.Logger).WithProbe("database", deps.DB.HealthCheck, true)
	if deps.Throttle != nil {
		health = health.WithProbe("redis", deps.Throttle.Ping, false)
	}
	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)

	authH := handlers.NewAuthHandler(deps.AuthService, deps.CookieBridge, deps.Logger)
	userH := handlers.NewUserHandler(deps.AuthService, deps.UserService, deps.Logger)
	courseH := handlers.NewCourseHandler(deps.CourseService, deps.Logger)
	groupH := handlers.NewGroupHandler(deps.GroupService, deps.Logger)
	enrollmentH := handlers.NewEnrollmentHandler(deps.EnrollmentService, deps.Logger)
	meetingH := handlers.NewMeetingHandler(deps.MeetingService, deps.Logger)
	attendanceH := handlers.NewAttendanceHandler(deps.AttendanceService, deps.Logger)
	gradeH := handlers.NewGradeHandler(deps.GradeService, deps.Logger)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Session endpoints
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authH.HandleLogin)
			r.Post("/logout", authH.HandleLogout)
			r.With(gate.RequireAuth).Get("/me", authH.HandleMe)
		})

		// Account administration (admin only)
		r.Route("/users", func(r chi.Router) {
			r.Use(gate.RequireRole(admin))
			r.Get("/", userH.HandleList)
			r.Post("/", userH.HandleCreate)
			r.Get("/{userID}", userH.HandleGet)
			r.Delete("/{userID}", userH.HandleDelete)
			r.Get("/{userID}/activity", userH.HandleActivity)
		})

		// The caller's own records
		r.Route("/me", func(r chi.Router) {
			r.Use(gate.RequireAuth)
			r.Get("/enrollments", enrollmentH.HandleListMine)
			r.Get("/attendance", attendanceH.HandleListMine)
			r.Get("/grades", gradeH.HandleListMine)
			r.Get("/activity", userH.HandleMyActivity)
		})

		// Course catalog
		r.Route("/courses", func(r chi.Router) {
			r.Use(gate.RequireAuth)
			r.Get("/", courseH.HandleList)
			r.With(gate.RequireRole(admin)).Post("/", courseH.HandleCreate)

			r.Route("/{courseID}", func(r chi.Router) {
				r.Get("/", courseH.HandleGet)
				r.With(gate.RequireRole(admin)).Put("/", courseH.HandleUpdate)
				r.With(gate.RequireRole(admin)).Delete("/", courseH.HandleDelete)

				r.Get("/groups", groupH.HandleListByCourse)
				r.With(gate.RequireRole(admin)).Post("/groups", groupH.HandleCreate)
			})
		})

		// Course groups, their rosters and meetings
		r.Route("/groups/{groupID}", func(r chi.Router) {
			r.Use(gate.RequireAuth)
			r.Get("/", groupH.HandleGet)
			r.With(gate.RequireRole(admin)).Put("/", groupH.HandleUpdate)
			r.With(gate.RequireRole(admin)).Delete("/", groupH.HandleDelete)

			r.With(gate.RequireRole(teacher, admin)).Get("/enrollments", enrollmentH.HandleListByGroup)
			r.Post("/enrollments", enrollmentH.HandleEnroll)

			r.Get("/meetings", meetingH.HandleListByGroup)
			r.With(gate.RequireRole(teacher, admin)).Post("/meetings", meetingH.HandleCreate)
		})

		// Enrollments and their grades. Withdrawal ownership is checked by the service.
		r.Route("/enrollments/{enrollmentID}", func(r chi.Router) {
			r.Use(gate.RequireAuth)
			r.Delete("/", enrollmentH.HandleWithdraw)

			r.Group(func(r chi.Router) {
				r.Use(gate.RequireRole(teacher, admin))
				r.Get("/grades", gradeH.HandleListByEnrollment)
				r.Post("/grades", gradeH.HandleAssign)
			})
		})

		// Meetings and attendance
		r.Route("/meetings/{meetingID}", func(r chi.Router) {
			r.Use(gate.RequireAuth)
			r.Get("/", meetingH.HandleGet)

			r.Group(func(r chi.Router) {
				r.Use(gate.RequireRole(teacher, admin))
				r.Put("/", meetingH.HandleUpdate)
				r.Delete("/", meetingH.HandleDelete)
				r.Get("/attendance", attendanceH.HandleListByMeeting)
				r.Put("/attendance", attendanceH.HandleRecord)
			})
		})

		// Grades
		r.Route("/grades/{gradeID}", func(r chi.Router) {
			r.Use(gate.RequireRole(teacher, admin))
			r.Put("/", gradeH.HandleUpdate)
			r.Delete("/", gradeH.HandleDelete)
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "endpoint not found")
	})

	return r
}
