package route

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nothotgamer/hostelixpro/internals/constants"
	"github.com/nothotgamer/hostelixpro/internals/features/routines/controller"
	"github.com/nothotgamer/hostelixpro/internals/middlewares"
	authMiddleware "github.com/nothotgamer/hostelixpro/internals/middlewares/auth"
)

// RoutineRoutes: walk/exit workflow + dashboard reads.
func RoutineRoutes(r fiber.Router, ctl *controller.RoutineController) {
	onlyStudent := authMiddleware.OnlyRoles(constants.RoleErrorStudent("routine requests"), constants.StudentOnly...)
	onlyManager := authMiddleware.OnlyRoles(constants.RoleErrorManager("routine approvals"), constants.RoutineManagers...)

	routines := r.Group("/routines")
	routines.Get("/", ctl.List)
	routines.Post("/", onlyStudent, middlewares.WriteRateLimiter(), ctl.Create)

	routines.Get("/stats", onlyManager, ctl.Stats)
	routines.Get("/currently-out", onlyManager, ctl.CurrentlyOut)
	routines.Get("/calendar",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("the routine calendar"), constants.AdminOnly...),
		ctl.Calendar,
	)

	routines.Post("/:id/approve", onlyManager, ctl.Approve)
	routines.Post("/:id/return", onlyStudent, ctl.RequestReturn)
	routines.Post("/:id/confirm-return", onlyManager, ctl.ConfirmReturn)
	routines.Post("/:id/reject", onlyManager, ctl.Reject)
}
