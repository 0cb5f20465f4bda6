package route

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nothotgamer/hostelixpro/internals/constants"
	"github.com/nothotgamer/hostelixpro/internals/features/dashboard/controller"
	authMiddleware "github.com/nothotgamer/hostelixpro/internals/middlewares/auth"
)

/*
Dashboards:
- GET /dashboard/stats                          (admin, teacher, routine_manager)
- GET /dashboard/teacher/students-daily         (teacher)
- GET /dashboard/routine-manager/daily-overview (routine_manager, admin)
*/
func DashboardRoutes(r fiber.Router, ctl *controller.DashboardController) {
	dash := r.Group("/dashboard",
		authMiddleware.OnlyRoles("Students have no staff dashboard.", constants.StaffRoles...),
	)
	dash.Get("/stats", ctl.Stats)
	dash.Get("/teacher/students-daily",
		authMiddleware.OnlyRoles("Only teachers have a daily student sheet.", constants.RoleTeacher),
		ctl.TeacherStudentsDaily,
	)
	dash.Get("/routine-manager/daily-overview",
		authMiddleware.OnlyRoles(constants.RoleErrorManager("the daily overview"), constants.RoutineManagers...),
		ctl.ManagerDailyOverview,
	)
}
