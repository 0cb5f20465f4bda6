package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/nothotgamer/hostelixpro/internals/constants"
	routineRepo "github.com/nothotgamer/hostelixpro/internals/features/routines/repository"
	routineService "github.com/nothotgamer/hostelixpro/internals/features/routines/service"
	studentRepo "github.com/nothotgamer/hostelixpro/internals/features/students/repository"
	"github.com/nothotgamer/hostelixpro/internals/features/users/admin/dto"
	"github.com/nothotgamer/hostelixpro/internals/features/users/admin/repository"
	helper "github.com/nothotgamer/hostelixpro/internals/helpers"
	helperAuth "github.com/nothotgamer/hostelixpro/internals/helpers/auth"
	"github.com/nothotgamer/hostelixpro/internals/helpers/dbtime"
)

// monthQuery reads ?year=&month=, defaulting to the current local month.
func (ctl *AccountController) monthQuery(c *fiber.Ctx) (int, time.Month, bool) {
	now := dbtime.FromMs(ctl.Clock.NowMs(), ctl.Loc)
	year := c.QueryInt("year", now.Year())
	month := c.QueryInt("month", int(now.Month()))
	if month < 1 || month > 12 || year < 2000 || year > 2100 {
		return 0, 0, false
	}
	return year, time.Month(month), true
}

// GET /api/users/student-profiles?year=&month=
func (ctl *AccountController) StudentProfiles(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	year, month, ok := ctl.monthQuery(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid year or month")
	}
	ctx := c.UserContext()

	scope, err := studentRepo.ResolveScope(ctx, ctl.DB, actor)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	rows, err := repository.ListStudentProfiles(ctx, ctl.DB, scope)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.StudentID)
	}
	from, to := dbtime.MonthRangeMs(year, month, ctl.Loc)
	acts, err := repository.CountActivities(ctx, ctl.DB, ids, from, to)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	items := dto.ToStudentProfiles(rows, acts, actor.Is(constants.RoleRoutineManager))
	return helper.JsonOK(c, "Student profiles", fiber.Map{
		"students": items,
		"year":     year,
		"month":    int(month),
		"total":    len(items),
	})
}

// GET /api/users/student-profiles/:id/activities?year=&month=
func (ctl *AccountController) StudentActivities(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid student id")
	}
	year, month, ok := ctl.monthQuery(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid year or month")
	}
	ctx := c.UserContext()

	student, err := studentRepo.FindByID(ctx, ctl.DB, id)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	if student == nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	}
	// guru hanya boleh melihat murid binaannya
	if actor.Is(constants.RoleTeacher) &&
		(student.StudentAssignedTeacherID == nil || *student.StudentAssignedTeacherID != actor.UserID) {
		return helper.JsonError(c, fiber.StatusForbidden, "Not your assigned student")
	}

	from, to := dbtime.MonthRangeMs(year, month, ctl.Loc)
	rows, err := routineRepo.ListRoutines(ctx, ctl.DB, routineRepo.ListFilter{StudentID: &id, FromMs: from, ToMs: to})
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	return helper.JsonOK(c, "Student activities", fiber.Map{
		"student_id": id,
		"calendar":   routineService.BuildRoutineCalendar(year, month, rows, ctl.Loc),
	})
}
