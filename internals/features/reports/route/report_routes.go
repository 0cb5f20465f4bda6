package route

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nothotgamer/hostelixpro/internals/constants"
	"github.com/nothotgamer/hostelixpro/internals/features/reports/controller"
	"github.com/nothotgamer/hostelixpro/internals/middlewares"
	authMiddleware "github.com/nothotgamer/hostelixpro/internals/middlewares/auth"
)

func ReportRoutes(r fiber.Router, ctl *controller.ReportController) {
	onlyStudent := authMiddleware.OnlyRoles(constants.RoleErrorStudent("daily reports"), constants.StudentOnly...)
	reviewers := authMiddleware.OnlyRoles(constants.RoleErrorStaff("report approvals"), constants.TeacherAndAbove...)

	reports := r.Group("/reports",
		authMiddleware.OnlyRoles(constants.RoleErrorStaff("reports"), constants.RoleAdmin, constants.RoleTeacher, constants.RoleStudent),
	)
	reports.Get("/", ctl.List)
	reports.Get("/today", onlyStudent, ctl.Today)
	reports.Post("/", onlyStudent, middlewares.WriteRateLimiter(), ctl.Create)
	reports.Post("/:id/approve", reviewers, ctl.Approve)
	reports.Post("/:id/reject", reviewers, ctl.Reject)
}
