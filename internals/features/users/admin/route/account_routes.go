package route

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nothotgamer/hostelixpro/internals/constants"
	"github.com/nothotgamer/hostelixpro/internals/features/users/admin/controller"
	"github.com/nothotgamer/hostelixpro/internals/middlewares"
	authMiddleware "github.com/nothotgamer/hostelixpro/internals/middlewares/auth"
)

/*
Account administration, mounted under the authenticated /api group.
- GET   /users                  (admin)
- POST  /users                  (admin)
- GET   /users/my-students      (teacher)
- GET   /users/student-profiles (admin, teacher, routine_manager)
- GET   /users/student-profiles/:id/activities
- PATCH /users/students/:id     (admin)
- GET   /users/:id              (admin)
- PATCH /users/:id              (admin)
- POST  /users/:id/lock         (admin)
*/
func AccountRoutes(r fiber.Router, ctl *controller.AccountController) {
	onlyAdmin := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("user management"), constants.AdminOnly...)
	onlyTeacher := authMiddleware.OnlyRoles("Only teachers have assigned students.", constants.RoleTeacher)

	users := r.Group("/users")
	// my-students didaftarkan sebelum /:id
	users.Get("/my-students", onlyTeacher, ctl.MyStudents)
	profiles := users.Group("/student-profiles",
		authMiddleware.OnlyRoles("Students cannot browse student profiles.", constants.StaffRoles...),
	)
	profiles.Get("/", ctl.StudentProfiles)
	profiles.Get("/:id/activities", ctl.StudentActivities)

	users.Get("/", onlyAdmin, ctl.List)
	users.Post("/", onlyAdmin, middlewares.WriteRateLimiter(), ctl.Create)
	users.Patch("/students/:id", onlyAdmin, ctl.UpdateStudent)
	users.Get("/:id", onlyAdmin, ctl.Get)
	users.Patch("/:id", onlyAdmin, ctl.Update)
	users.Post("/:id/lock", onlyAdmin, ctl.Lock)
}
