package controller

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditService "github.com/nothotgamer/hostelixpro/internals/features/audit/service"
	"github.com/nothotgamer/hostelixpro/internals/features/routines/dto"
	"github.com/nothotgamer/hostelixpro/internals/features/routines/model"
	"github.com/nothotgamer/hostelixpro/internals/features/routines/repository"
	"github.com/nothotgamer/hostelixpro/internals/features/routines/service"
	helper "github.com/nothotgamer/hostelixpro/internals/helpers"
	helperAuth "github.com/nothotgamer/hostelixpro/internals/helpers/auth"
	"github.com/nothotgamer/hostelixpro/internals/helpers/dbtime"
	"github.com/nothotgamer/hostelixpro/internals/metrics"
)

type RoutineController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *service.RoutineService
	Audit     *auditService.Recorder
	Clock     dbtime.Clock
	Loc       *time.Location
	Log       *zap.Logger
}

func NewRoutineController(db *gorm.DB, clock dbtime.Clock, loc *time.Location, audit *auditService.Recorder, log *zap.Logger) *RoutineController {
	if clock == nil {
		clock = dbtime.SystemClock{}
	}
	return &RoutineController{
		DB:        db,
		Validator: validator.New(),
		Service:   service.NewRoutineService(repository.NewRoutineRepository(db), clock),
		Audit:     audit,
		Clock:     clock,
		Loc:       loc,
		Log:       log.Named("routines"),
	}
}

// POST /api/routines
func (ctl *RoutineController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	var req dto.CreateRoutineRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	r, err := ctl.Service.CreateRequest(c.UserContext(), actor, req.ToInput())
	metrics.RecordTransition("routine", "create", err)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	action := "CREATE_WALK_REQUEST"
	if r.RoutineType == model.RoutineExit {
		action = "CREATE_EXIT_REQUEST"
	}
	ctl.Audit.Record(c.UserContext(), auditService.Entry{
		UserID:   actor.UserID,
		Action:   action,
		Entity:   "routine",
		EntityID: auditService.ID(r.RoutineID),
		Details:  map[string]any{"type": r.RoutineType, "expected_return_time": r.RoutineExpectedReturnTime},
	})
	return helper.JsonCreated(c, "Routine request created", r)
}

// POST /api/routines/:id/approve
func (ctl *RoutineController) Approve(c *fiber.Ctx) error {
	return ctl.review(c, "approve", "APPROVE_ROUTINE", "Routine approved", ctl.Service.ApproveRequest)
}

// POST /api/routines/:id/confirm-return
func (ctl *RoutineController) ConfirmReturn(c *fiber.Ctx) error {
	return ctl.review(c, "confirm_return", "CONFIRM_RETURN", "Return confirmed", ctl.Service.ConfirmReturn)
}

type reviewFn func(ctx context.Context, actor helperAuth.Actor, id uuid.UUID, notes string) (*model.RoutineModel, error)

func (ctl *RoutineController) review(c *fiber.Ctx, metricAction, auditAction, msg string, fn reviewFn) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid routine id")
	}

	// body opsional
	var req dto.ReviewRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
		}
		if err := ctl.Validator.Struct(req); err != nil {
			return helper.ValidationError(c, err)
		}
	}

	r, err := fn(c.UserContext(), actor, id, req.Notes)
	metrics.RecordTransition("routine", metricAction, err)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	ctl.Audit.Record(c.UserContext(), auditService.Entry{
		UserID:   actor.UserID,
		Action:   auditAction,
		Entity:   "routine",
		EntityID: auditService.ID(r.RoutineID),
		Details:  map[string]any{"type": r.RoutineType, "new_status": r.RoutineStatus},
	})
	return helper.JsonUpdated(c, msg, r)
}

// POST /api/routines/:id/return
func (ctl *RoutineController) RequestReturn(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid routine id")
	}

	r, err := ctl.Service.RequestReturn(c.UserContext(), actor, id)
	metrics.RecordTransition("routine", "request_return", err)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	ctl.Audit.Record(c.UserContext(), auditService.Entry{
		UserID:   actor.UserID,
		Action:   "REQUEST_RETURN",
		Entity:   "routine",
		EntityID: auditService.ID(r.RoutineID),
	})
	return helper.JsonUpdated(c, "Return requested", r)
}

// POST /api/routines/:id/reject
func (ctl *RoutineController) Reject(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid routine id")
	}

	var req dto.RejectRoutineRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	r, err := ctl.Service.RejectRequest(c.UserContext(), actor, id, req.Reason)
	metrics.RecordTransition("routine", "reject", err)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	ctl.Audit.Record(c.UserContext(), auditService.Entry{
		UserID:   actor.UserID,
		Action:   "REJECT_ROUTINE",
		Entity:   "routine",
		EntityID: auditService.ID(r.RoutineID),
		Details:  map[string]any{"reason": req.Reason, "new_status": r.RoutineStatus},
	})
	return helper.JsonUpdated(c, "Routine rejected", r)
}
