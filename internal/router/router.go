package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"school-admin/internal/config"
	"school-admin/internal/handler"
	"school-admin/internal/middleware"
	"school-admin/internal/service"
)

type Handlers struct {
	Auth      *handler.AuthHandler
	Classroom *handler.ClassroomHandler
	Student   *handler.StudentHandler
	Audit     *handler.AuditHandler
	// Health reports backing store reachability. Nil means always healthy.
	Health func(ctx context.Context) error
}

func New(cfg *config.Server, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	adminOnly := authMiddleware.RequireRoles(service.RoleAdmin)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if h.Health != nil {
			if err := h.Health(req.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("unavailable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Auth.Login)
			auth.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
		})

		api.Route("/classroom", func(c chi.Router) {
			c.Use(authMiddleware.RequireAuth)

			c.Get("/list", h.Classroom.List)
			c.Get("/detail/{id}", h.Classroom.Detail)
			c.Post("/create", h.Classroom.Create)
			c.Put("/update/{id}", h.Classroom.Update)
			c.With(adminOnly).Delete("/delete/{id}", h.Classroom.Delete)
			c.Get("/students/{id}", h.Classroom.Members)
			c.Get("/students-not-in-class", h.Classroom.NonMembers)
			c.Post("/add-student", h.Classroom.AddMember)
			c.Delete("/remove-student/{studentId}/{classroomId}", h.Classroom.RemoveMember)
			c.Get("/get-male-student-raw-query", h.Classroom.MaleStudents)
		})

		api.Route("/students", func(s chi.Router) {
			s.Use(authMiddleware.RequireAuth)

			s.Get("/list", h.Student.List)
			s.Get("/detail/{id}", h.Student.Detail)
			s.Post("/create", h.Student.Create)
			s.Put("/update/{id}", h.Student.Update)
			s.With(adminOnly).Delete("/delete/{id}", h.Student.Delete)
		})

		api.With(authMiddleware.RequireAuth, adminOnly).Get("/audit/list", h.Audit.List)
	})

	return r
}
