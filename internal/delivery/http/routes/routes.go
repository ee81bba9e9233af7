package routes

import (
	"jobboard/internal/delivery/http/handler"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/pkg/jwt"
	"jobboard/internal/usecase/session"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health    *handler.HealthHandler
	auth      *handler.AuthHandler
	jobs      *handler.JobsHandler
	me        *handler.MeHandler
	directory *handler.DirectoryHandler
	authMw    *middleware.AuthMiddleware
}

func NewRegistry(tokens jwt.Service, sessions *session.Store, checks map[string]handler.Pinger) *Registry {
	return &Registry{
		health:    handler.NewHealthHandler(checks),
		auth:      handler.NewAuthHandler(sessions),
		jobs:      handler.NewJobsHandler(sessions),
		me:        handler.NewMeHandler(sessions),
		directory: handler.NewDirectoryHandler(sessions),
		authMw:    middleware.NewAuthMiddleware(tokens, sessions),
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerAPI(app *fiber.App) {
	v1 := app.Group("/api/v1", r.authMw.Middleware())

	r.auth.RegisterRoutes(v1.Group("/auth"))
	r.jobs.RegisterRoutes(v1.Group("/jobs"))
	r.me.RegisterRoutes(v1.Group("/me"))
	r.directory.RegisterRoutes(v1.Group("/directory"))
}
