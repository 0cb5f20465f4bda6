package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nothotgamer/hostelixpro/internals/constants"
	"github.com/nothotgamer/hostelixpro/internals/features/dashboard/repository"
	"github.com/nothotgamer/hostelixpro/internals/features/dashboard/service"
	reportModel "github.com/nothotgamer/hostelixpro/internals/features/reports/model"
	routineModel "github.com/nothotgamer/hostelixpro/internals/features/routines/model"
	routineRepo "github.com/nothotgamer/hostelixpro/internals/features/routines/repository"
	studentRepo "github.com/nothotgamer/hostelixpro/internals/features/students/repository"
	helper "github.com/nothotgamer/hostelixpro/internals/helpers"
	helperAuth "github.com/nothotgamer/hostelixpro/internals/helpers/auth"
	"github.com/nothotgamer/hostelixpro/internals/helpers/dbtime"
)

const recentActivityLimit = 10

// DashboardController serves the per-role landing pages. "Today" for wake
// reports follows the report window, so it matches the one-report rule.
type DashboardController struct {
	DB     *gorm.DB
	Clock  dbtime.Clock
	Loc    *time.Location
	Window time.Duration
	Log    *zap.Logger
}

func NewDashboardController(db *gorm.DB, clock dbtime.Clock, loc *time.Location, reportWindow time.Duration, log *zap.Logger) *DashboardController {
	if clock == nil {
		clock = dbtime.SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	if reportWindow <= 0 {
		reportWindow = 18 * time.Hour
	}
	return &DashboardController{DB: db, Clock: clock, Loc: loc, Window: reportWindow, Log: log.Named("dashboard")}
}

func (ctl *DashboardController) reportCutoff(now int64) int64 {
	return now - ctl.Window.Milliseconds()
}

// GET /api/dashboard/stats
func (ctl *DashboardController) Stats(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	var out any
	switch actor.Role {
	case constants.RoleAdmin:
		out, err = ctl.adminStats(c)
	case constants.RoleTeacher:
		out, err = ctl.teacherStats(c, actor)
	case constants.RoleRoutineManager:
		out, err = ctl.managerStats(c)
	default:
		return helper.JsonError(c, fiber.StatusForbidden, "No dashboard for this role")
	}
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	return helper.JsonOK(c, "Dashboard stats", out)
}

func (ctl *DashboardController) adminStats(c *fiber.Ctx) (service.AdminStats, error) {
	ctx := c.UserContext()
	var s service.AdminStats
	var err error

	if s.TotalUsers, err = repository.CountUsers(ctx, ctl.DB, false); err != nil {
		return s, err
	}
	if s.LockedUsers, err = repository.CountUsers(ctx, ctl.DB, true); err != nil {
		return s, err
	}
	if s.ActiveStudents, err = studentRepo.CountActive(ctx, ctl.DB); err != nil {
		return s, err
	}
	if s.PendingReports, err = repository.CountReports(ctx, ctl.DB, studentRepo.Scope{All: true}, reportModel.ReportPendingAdmin, 0); err != nil {
		return s, err
	}
	if s.PendingTransactions, err = repository.CountPendingTransactions(ctx, ctl.DB); err != nil {
		return s, err
	}
	if s.PendingRoutines, err = repository.CountRoutines(ctx, ctl.DB, "", routineModel.RoutinePendingManager, routineModel.RoutinePendingReturnApproval); err != nil {
		return s, err
	}
	return s, nil
}

func (ctl *DashboardController) teacherStats(c *fiber.Ctx, actor helperAuth.Actor) (service.TeacherStats, error) {
	ctx := c.UserContext()
	var s service.TeacherStats

	scope, err := studentRepo.ResolveScope(ctx, ctl.DB, actor)
	if err != nil {
		return s, err
	}
	s.TotalStudents = int64(len(scope.StudentIDs))
	if s.PendingReports, err = repository.CountReports(ctx, ctl.DB, scope, reportModel.ReportPendingTeacher, 0); err != nil {
		return s, err
	}
	if s.TodayReported, err = repository.CountReports(ctx, ctl.DB, scope, "", ctl.reportCutoff(ctl.Clock.NowMs())); err != nil {
		return s, err
	}
	s.AttendanceRate = service.AttendanceRate(s.TodayReported, s.TotalStudents)
	return s, nil
}

func (ctl *DashboardController) managerStats(c *fiber.Ctx) (service.ManagerStats, error) {
	ctx := c.UserContext()

	total, err := studentRepo.CountActive(ctx, ctl.DB)
	if err != nil {
		return service.ManagerStats{}, err
	}
	onWalk, err := repository.CountRoutines(ctx, ctl.DB, routineModel.RoutineWalk, routineModel.OutStatuses...)
	if err != nil {
		return service.ManagerStats{}, err
	}
	onExit, err := repository.CountRoutines(ctx, ctl.DB, routineModel.RoutineExit, routineModel.OutStatuses...)
	if err != nil {
		return service.ManagerStats{}, err
	}
	pending, err := repository.CountRoutines(ctx, ctl.DB, "", routineModel.RoutinePendingManager)
	if err != nil {
		return service.ManagerStats{}, err
	}
	late, err := routineRepo.CountOverdue(ctx, ctl.DB, ctl.Clock.NowMs())
	if err != nil {
		return service.ManagerStats{}, err
	}
	return service.NewManagerStats(total, onWalk, onExit, pending, late), nil
}

// GET /api/dashboard/teacher/students-daily
func (ctl *DashboardController) TeacherStudentsDaily(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	ctx := c.UserContext()
	now := ctl.Clock.NowMs()

	scope, err := studentRepo.ResolveScope(ctx, ctl.DB, actor)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	roster, err := studentRepo.ListRoster(ctx, ctl.DB, scope, "")
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	ids := rosterIDs(roster)

	in := service.DailyInput{Roster: roster}
	if in.TodayReports, err = repository.LatestReportsSince(ctx, ctl.DB, ids, ctl.reportCutoff(now)); err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	if in.ActiveRoutines, err = repository.ActiveRoutines(ctx, ctl.DB, ids); err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	if in.PendingReports, err = repository.PendingReportCounts(ctx, ctl.DB, ids, reportModel.ReportPendingTeacher); err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	if in.PendingFees, err = repository.PendingFeeCounts(ctx, ctl.DB, ids); err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	rows, summary := service.StudentsDaily(in)
	return helper.JsonOK(c, "Students daily", fiber.Map{
		"date":     dbtime.DateKey(now, ctl.Loc),
		"students": rows,
		"summary":  summary,
	})
}

// GET /api/dashboard/routine-manager/daily-overview
func (ctl *DashboardController) ManagerDailyOverview(c *fiber.Ctx) error {
	ctx := c.UserContext()
	now := ctl.Clock.NowMs()

	stats, err := ctl.managerStats(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	recent, err := repository.RecentRoutines(ctx, ctl.DB, dbtime.DayStartMs(now, ctl.Loc), recentActivityLimit)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	stale, err := repository.CountStalePending(ctx, ctl.DB, now-service.PendingAlertAfterMs)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	return helper.JsonOK(c, "Daily overview", fiber.Map{
		"date":            dbtime.DateKey(now, ctl.Loc),
		"stats":           stats,
		"recent_activity": recent,
		"alerts":          service.Alerts(stats.LateReturns, stale),
	})
}

func rosterIDs(roster []studentRepo.Roster) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(roster))
	for _, r := range roster {
		ids = append(ids, r.StudentID)
	}
	return ids
}
