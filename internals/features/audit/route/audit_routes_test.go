package route

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/nothotgamer/hostelixpro/internals/constants"
	"github.com/nothotgamer/hostelixpro/internals/features/audit/controller"
	"github.com/nothotgamer/hostelixpro/internals/helpers/routetest"
)

func TestAuditRoutesAdminOnly(t *testing.T) {
	db, _ := routetest.MockDB(t)
	app := routetest.App(func(r fiber.Router) { AuditRoutes(r, controller.NewAuditController(db, zap.NewNop())) })

	routetest.Run(t, app, []routetest.Case{
		{Method: "GET", Path: "/api/audit?user_id=bad", Role: "", Want: fiber.StatusUnauthorized},
		{Method: "GET", Path: "/api/audit?user_id=bad", Role: constants.RoleTeacher, Want: fiber.StatusForbidden},
		{Method: "GET", Path: "/api/audit?user_id=bad", Role: constants.RoleRoutineManager, Want: fiber.StatusForbidden},
		{Method: "GET", Path: "/api/audit?user_id=bad", Role: constants.RoleStudent, Want: fiber.StatusForbidden},
		{Method: "GET", Path: "/api/audit?user_id=bad", Role: constants.RoleAdmin, Want: fiber.StatusBadRequest},
	})
}
