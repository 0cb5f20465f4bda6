package routes

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditController "github.com/nothotgamer/hostelixpro/internals/features/audit/controller"
	auditRoute "github.com/nothotgamer/hostelixpro/internals/features/audit/route"
	auditService "github.com/nothotgamer/hostelixpro/internals/features/audit/service"
	dashboardController "github.com/nothotgamer/hostelixpro/internals/features/dashboard/controller"
	dashboardRoute "github.com/nothotgamer/hostelixpro/internals/features/dashboard/route"
	feeController "github.com/nothotgamer/hostelixpro/internals/features/fees/controller"
	feeRoute "github.com/nothotgamer/hostelixpro/internals/features/fees/route"
	reportController "github.com/nothotgamer/hostelixpro/internals/features/reports/controller"
	reportRoute "github.com/nothotgamer/hostelixpro/internals/features/reports/route"
	reportService "github.com/nothotgamer/hostelixpro/internals/features/reports/service"
	routineController "github.com/nothotgamer/hostelixpro/internals/features/routines/controller"
	routineRoute "github.com/nothotgamer/hostelixpro/internals/features/routines/route"
	accountController "github.com/nothotgamer/hostelixpro/internals/features/users/admin/controller"
	accountRoute "github.com/nothotgamer/hostelixpro/internals/features/users/admin/route"
	authController "github.com/nothotgamer/hostelixpro/internals/features/users/auth/controller"
	authRoute "github.com/nothotgamer/hostelixpro/internals/features/users/auth/route"
	userRepo "github.com/nothotgamer/hostelixpro/internals/features/users/repository"
	"github.com/nothotgamer/hostelixpro/internals/helpers/dbtime"
	authMiddleware "github.com/nothotgamer/hostelixpro/internals/middlewares/auth"
)

var startTime time.Time

// Deps is everything the HTTP layer needs from main.
type Deps struct {
	DB           *gorm.DB
	Log          *zap.Logger
	Clock        dbtime.Clock
	Location     *time.Location
	JWTSecret    string
	TokenTTL     time.Duration
	ReportPolicy reportService.Policy
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()
	log := d.Log.Named("routes")

	BaseRoutes(app, d.DB)

	audit := auditService.NewRecorder(d.DB, d.Clock, d.Log)
	authCtl := authController.NewAuthController(d.DB, d.JWTSecret, d.TokenTTL, d.Log)

	// login harus terdaftar sebelum group /api yang memasang AuthJWT
	authRoute.AuthPublicRoutes(app, authCtl)

	log.Info("setting up private /api group")
	api := app.Group("/api",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              d.JWTSecret,
			AllowCookieFallback: true,
			ActiveChecker:       activeChecker(d.DB),
			Log:                 d.Log,
		}),
	)

	authRoute.AuthPrivateRoutes(api, authCtl)

	log.Info("mounting fee routes")
	feeRoute.FeeRoutes(api, feeController.NewFeeController(d.DB, d.Clock, d.Location, audit, d.Log))

	log.Info("mounting routine routes")
	routineRoute.RoutineRoutes(api, routineController.NewRoutineController(d.DB, d.Clock, d.Location, audit, d.Log))

	log.Info("mounting report routes")
	reportRoute.ReportRoutes(api, reportController.NewReportController(d.DB, d.Clock, d.ReportPolicy, audit, d.Log))

	log.Info("mounting account, audit & dashboard routes")
	accountRoute.AccountRoutes(api, accountController.NewAccountController(d.DB, d.Clock, d.Location, audit, d.Log))
	auditRoute.AuditRoutes(api, auditController.NewAuditController(d.DB, d.Log))
	dashboardRoute.DashboardRoutes(api, dashboardController.NewDashboardController(d.DB, d.Clock, d.Location, d.ReportPolicy.Window, d.Log))
}

// activeChecker maps the users table onto the middleware's contract; the
// stored role wins over the token claim.
func activeChecker(db *gorm.DB) func(ctx context.Context, userID uuid.UUID) (string, error) {
	return func(ctx context.Context, userID uuid.UUID) (string, error) {
		role, err := userRepo.ActiveUserRole(ctx, db, userID)
		if errors.Is(err, userRepo.ErrUserLocked) {
			return "", authMiddleware.ErrAccountLocked
		}
		return role, err
	}
}
