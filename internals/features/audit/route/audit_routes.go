package route

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nothotgamer/hostelixpro/internals/constants"
	"github.com/nothotgamer/hostelixpro/internals/features/audit/controller"
	authMiddleware "github.com/nothotgamer/hostelixpro/internals/middlewares/auth"
)

// AuditRoutes: GET /audit (admin).
func AuditRoutes(r fiber.Router, ctl *controller.AuditController) {
	audit := r.Group("/audit", authMiddleware.OnlyRoles(constants.RoleErrorAdmin("audit logs"), constants.AdminOnly...))
	audit.Get("/", ctl.List)
}
