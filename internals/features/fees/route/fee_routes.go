package route

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nothotgamer/hostelixpro/internals/constants"
	"github.com/nothotgamer/hostelixpro/internals/features/fees/controller"
	"github.com/nothotgamer/hostelixpro/internals/middlewares"
	authMiddleware "github.com/nothotgamer/hostelixpro/internals/middlewares/auth"
)

/*
Fee routes, mounted under an authenticated group.
Final paths:
- GET  /fees                         (role scoped)
- POST /fees                         (student)
- GET  /fees/calendar                (role scoped)
- GET  /fees/stats                   (admin)
- GET  /fees/structures              (admin)
- POST /fees/structures              (admin)
- PUT  /fees/structures/:id          (admin)
- GET  /fees/:id/transactions        (role scoped)
- POST /fees/transactions/:id/approve (admin)
- POST /fees/transactions/:id/reject  (admin)
*/
func FeeRoutes(r fiber.Router, ctl *controller.FeeController) {
	onlyAdmin := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("fee administration"), constants.AdminOnly...)

	// routine_manager tidak punya akses ke data keuangan
	readers := authMiddleware.OnlyRoles("Routine managers cannot access fees.",
		constants.RoleAdmin, constants.RoleTeacher, constants.RoleStudent)

	fees := r.Group("/fees", readers)
	fees.Get("/", ctl.ListFees)
	fees.Post("/",
		authMiddleware.OnlyRoles(constants.RoleErrorStudent("fee submission"), constants.StudentOnly...),
		middlewares.WriteRateLimiter(),
		ctl.SubmitFee,
	)
	fees.Get("/calendar", ctl.FeeCalendar)
	fees.Get("/stats", onlyAdmin, ctl.FeeStats)

	structures := fees.Group("/structures", onlyAdmin)
	structures.Get("/", ctl.ListStructures)
	structures.Post("/", ctl.CreateStructure)
	structures.Put("/:id", ctl.UpdateStructure)

	fees.Get("/:id/transactions", ctl.ListFeeTransactions)

	txs := fees.Group("/transactions", onlyAdmin)
	txs.Post("/:id/approve", ctl.ApproveTransaction)
	txs.Post("/:id/reject", ctl.RejectTransaction)
}
