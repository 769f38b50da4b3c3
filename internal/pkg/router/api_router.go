package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ansokolov/CourseFox/app/controllers"
	"github.com/ansokolov/CourseFox/internal/pkg/env"
	"github.com/ansokolov/CourseFox/internal/pkg/middleware"
	"github.com/ansokolov/CourseFox/internal/pkg/token"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	// One issuer per process; the signing secret is read once here and
	// shared by the auth endpoint and the bearer middleware.
	issuer := token.NewIssuer(env.GetEnv("JWT_SECRET", ""), token.DefaultTTL)
	controllers.InitializeAuthController(issuer)

	api := app.Group("/api", limiter.New(), middleware.BearerContext(issuer))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// Authentication and session
	api.Post("/auth", controllers.HandleTelegramAuth)
	api.Get("/me", middleware.RequireAPIAuth, controllers.HandleMe)

	// Course content
	api.Get("/modules", controllers.HandleListModules)
	api.Get("/modules/:id/videos", controllers.HandleListModuleVideos)

	// Engagement
	api.Post("/videos/:id/like", middleware.RequireAPIAuth, controllers.HandleToggleLike)
	api.Post("/videos/:id/rate", middleware.RequireAPIAuth, controllers.HandleRateVideo)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
