package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditService "github.com/nothotgamer/hostelixpro/internals/features/audit/service"
	"github.com/nothotgamer/hostelixpro/internals/features/users/admin/dto"
	"github.com/nothotgamer/hostelixpro/internals/features/users/admin/repository"
	"github.com/nothotgamer/hostelixpro/internals/features/users/admin/service"
	authService "github.com/nothotgamer/hostelixpro/internals/features/users/auth/service"
	helper "github.com/nothotgamer/hostelixpro/internals/helpers"
	helperAuth "github.com/nothotgamer/hostelixpro/internals/helpers/auth"
	"github.com/nothotgamer/hostelixpro/internals/helpers/dbtime"
)

type AccountController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *service.AccountService
	Audit     *auditService.Recorder
	Clock     dbtime.Clock
	Loc       *time.Location
	Log       *zap.Logger
}

func NewAccountController(db *gorm.DB, clock dbtime.Clock, loc *time.Location, audit *auditService.Recorder, log *zap.Logger) *AccountController {
	if clock == nil {
		clock = dbtime.SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &AccountController{
		DB:        db,
		Validator: validator.New(),
		Service:   service.NewAccountService(repository.NewAccountRepository(db), clock, authService.HashPassword),
		Audit:     audit,
		Clock:     clock,
		Loc:       loc,
		Log:       log.Named("accounts"),
	}
}

// POST /api/users
func (ctl *AccountController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	var req dto.CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	acc, err := ctl.Service.CreateAccount(c.UserContext(), actor, req.ToInput())
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	details := map[string]any{"role": acc.User.UserRole, "email": acc.User.UserEmail}
	if acc.Student != nil {
		details["admission_no"] = acc.Student.StudentAdmissionNo
		details["assigned_teacher_id"] = acc.Student.StudentAssignedTeacherID
	}
	ctl.Audit.Record(c.UserContext(), auditService.Entry{
		UserID:   actor.UserID,
		Action:   "CREATE_USER",
		Entity:   "user",
		EntityID: auditService.ID(acc.User.UserID),
		Details:  details,
	})
	return helper.JsonCreated(c, "User created", acc)
}

// PATCH /api/users/:id
func (ctl *AccountController) Update(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user id")
	}

	var req dto.UpdateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	acc, err := ctl.Service.UpdateAccount(c.UserContext(), actor, id, req.ToPatch())
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	ctl.Audit.Record(c.UserContext(), auditService.Entry{
		UserID:   actor.UserID,
		Action:   "UPDATE_USER",
		Entity:   "user",
		EntityID: auditService.ID(acc.User.UserID),
		Details:  map[string]any{"role": acc.User.UserRole, "email": acc.User.UserEmail},
	})
	return helper.JsonUpdated(c, "User updated", acc)
}

// POST /api/users/:id/lock   body opsional {"is_locked": bool}
func (ctl *AccountController) Lock(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user id")
	}

	var req dto.LockRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}

	u, err := ctl.Service.SetLocked(c.UserContext(), actor, id, req.IsLocked)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	action, msg := "UNLOCK_USER", "User unlocked"
	if u.UserIsLocked {
		action, msg = "LOCK_USER", "User locked"
	}
	ctl.Audit.Record(c.UserContext(), auditService.Entry{
		UserID:   actor.UserID,
		Action:   action,
		Entity:   "user",
		EntityID: auditService.ID(u.UserID),
	})
	return helper.JsonUpdated(c, msg, u)
}

// PATCH /api/users/students/:id
func (ctl *AccountController) UpdateStudent(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid student id")
	}

	var req dto.UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	st, err := ctl.Service.UpdateStudent(c.UserContext(), actor, id, req.ToPatch())
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	ctl.Audit.Record(c.UserContext(), auditService.Entry{
		UserID:   actor.UserID,
		Action:   "UPDATE_STUDENT",
		Entity:   "student",
		EntityID: auditService.ID(st.StudentID),
		Details: map[string]any{
			"admission_no":        st.StudentAdmissionNo,
			"assigned_teacher_id": st.StudentAssignedTeacherID,
		},
	})
	return helper.JsonUpdated(c, "Student updated", st)
}
