package route

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/nothotgamer/hostelixpro/internals/constants"
	"github.com/nothotgamer/hostelixpro/internals/features/dashboard/controller"
	"github.com/nothotgamer/hostelixpro/internals/helpers/routetest"
)

func TestDashboardRoutesRoleGates(t *testing.T) {
	// no expectations: a request that passes the gate fails on its first query
	db, _ := routetest.MockDB(t)
	ctl := controller.NewDashboardController(db, nil, time.UTC, 0, zap.NewNop())
	app := routetest.App(func(r fiber.Router) { DashboardRoutes(r, ctl) })

	routetest.Run(t, app, []routetest.Case{
		{Method: "GET", Path: "/api/dashboard/stats", Role: "", Want: fiber.StatusUnauthorized},
		{Method: "GET", Path: "/api/dashboard/stats", Role: constants.RoleStudent, Want: fiber.StatusForbidden},
		{Method: "GET", Path: "/api/dashboard/stats", Role: constants.RoleAdmin, Want: fiber.StatusInternalServerError},
		{Method: "GET", Path: "/api/dashboard/stats", Role: constants.RoleRoutineManager, Want: fiber.StatusInternalServerError},

		{Method: "GET", Path: "/api/dashboard/teacher/students-daily", Role: constants.RoleAdmin, Want: fiber.StatusForbidden},
		{Method: "GET", Path: "/api/dashboard/teacher/students-daily", Role: constants.RoleRoutineManager, Want: fiber.StatusForbidden},
		{Method: "GET", Path: "/api/dashboard/teacher/students-daily", Role: constants.RoleTeacher, Want: fiber.StatusInternalServerError},

		{Method: "GET", Path: "/api/dashboard/routine-manager/daily-overview", Role: constants.RoleTeacher, Want: fiber.StatusForbidden},
		{Method: "GET", Path: "/api/dashboard/routine-manager/daily-overview", Role: constants.RoleAdmin, Want: fiber.StatusInternalServerError},
	})
}
