package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nothotgamer/hostelixpro/internals/constants"
	"github.com/nothotgamer/hostelixpro/internals/features/routines/model"
	"github.com/nothotgamer/hostelixpro/internals/features/routines/repository"
	"github.com/nothotgamer/hostelixpro/internals/features/routines/service"
	studentRepo "github.com/nothotgamer/hostelixpro/internals/features/students/repository"
	helper "github.com/nothotgamer/hostelixpro/internals/helpers"
	helperAuth "github.com/nothotgamer/hostelixpro/internals/helpers/auth"
	"github.com/nothotgamer/hostelixpro/internals/helpers/dbtime"
)

const listLimit = 50

// GET /api/routines?status=
//   - student: riwayat sendiri
//   - routine_manager: default hanya yang menunggu keputusan
//   - admin/teacher: semua
func (ctl *RoutineController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	ctx := c.UserContext()

	f := repository.ListFilter{Limit: listLimit}
	status := model.RoutineStatus(strings.ToUpper(strings.TrimSpace(c.Query("status"))))

	switch actor.Role {
	case constants.RoleStudent:
		st, err := studentRepo.FindByUserID(ctx, ctl.DB, actor.UserID)
		if err != nil {
			return helper.FromServiceError(c, ctl.Log, err)
		}
		if st == nil {
			return helper.JsonError(c, fiber.StatusNotFound, "Student profile not found")
		}
		f.StudentID = &st.StudentID
	case constants.RoleRoutineManager:
		if status == "" {
			f.Statuses = []model.RoutineStatus{model.RoutinePendingManager, model.RoutinePendingReturnApproval}
		}
	}
	if status != "" {
		f.Statuses = []model.RoutineStatus{status}
	}

	rows, err := repository.ListRoutines(ctx, ctl.DB, f)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	return helper.JsonList(c, "Routines fetched", rows, nil)
}

// GET /api/routines/stats
func (ctl *RoutineController) Stats(c *fiber.Ctx) error {
	ctx := c.UserContext()

	pending, err := repository.CountByStatuses(ctx, ctl.DB, model.RoutinePendingManager, model.RoutinePendingReturnApproval)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	out, err := repository.CountByStatuses(ctx, ctl.DB, model.RoutineApprovedPendingReturn)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	late, err := repository.CountOverdue(ctx, ctl.DB, ctl.Clock.NowMs())
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	return helper.JsonOK(c, "Routine stats", service.Stats{
		PendingCount: pending,
		CurrentlyOut: out,
		LateReturns:  late,
	})
}

// GET /api/routines/currently-out
func (ctl *RoutineController) CurrentlyOut(c *fiber.Ctx) error {
	rows, err := repository.ListRoutines(c.UserContext(), ctl.DB, repository.ListFilter{
		Statuses: model.OutStatuses,
	})
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	return helper.JsonList(c, "Students currently out", rows, nil)
}

// GET /api/routines/calendar?year=&month=
func (ctl *RoutineController) Calendar(c *fiber.Ctx) error {
	loc := ctl.Loc
	now := dbtime.FromMs(ctl.Clock.NowMs(), loc)
	year := c.QueryInt("year", now.Year())
	month := c.QueryInt("month", int(now.Month()))
	if month < 1 || month > 12 || year < 2000 || year > 2100 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid year or month")
	}

	from, to := dbtime.MonthRangeMs(year, time.Month(month), loc)
	rows, err := repository.ListRoutines(c.UserContext(), ctl.DB, repository.ListFilter{FromMs: from, ToMs: to})
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	return helper.JsonOK(c, "Routine calendar", service.BuildRoutineCalendar(year, time.Month(month), rows, loc))
}
