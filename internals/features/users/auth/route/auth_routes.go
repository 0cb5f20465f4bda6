package route

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nothotgamer/hostelixpro/internals/features/users/auth/controller"
	"github.com/nothotgamer/hostelixpro/internals/middlewares"
)

// AuthPublicRoutes mounts on the app before the JWT-guarded /api group.
func AuthPublicRoutes(app *fiber.App, ctl *controller.AuthController) {
	app.Post("/api/auth/login", middlewares.LoginRateLimiter(), ctl.PostLogin)
}

func AuthPrivateRoutes(r fiber.Router, ctl *controller.AuthController) {
	r.Get("/auth/me", ctl.Me)
}
