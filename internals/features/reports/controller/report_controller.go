package controller

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditService "github.com/nothotgamer/hostelixpro/internals/features/audit/service"
	"github.com/nothotgamer/hostelixpro/internals/features/reports/dto"
	"github.com/nothotgamer/hostelixpro/internals/features/reports/model"
	"github.com/nothotgamer/hostelixpro/internals/features/reports/repository"
	"github.com/nothotgamer/hostelixpro/internals/features/reports/service"
	studentRepo "github.com/nothotgamer/hostelixpro/internals/features/students/repository"
	helper "github.com/nothotgamer/hostelixpro/internals/helpers"
	helperAuth "github.com/nothotgamer/hostelixpro/internals/helpers/auth"
	"github.com/nothotgamer/hostelixpro/internals/helpers/dbtime"
	"github.com/nothotgamer/hostelixpro/internals/metrics"
)

const listLimit = 100

type ReportController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *service.ReportService
	Audit     *auditService.Recorder
	Clock     dbtime.Clock
	Log       *zap.Logger
}

func NewReportController(db *gorm.DB, clock dbtime.Clock, policy service.Policy, audit *auditService.Recorder, log *zap.Logger) *ReportController {
	if clock == nil {
		clock = dbtime.SystemClock{}
	}
	return &ReportController{
		DB:        db,
		Validator: validator.New(),
		Service:   service.NewReportService(repository.NewReportRepository(db), clock, policy),
		Audit:     audit,
		Clock:     clock,
		Log:       log.Named("reports"),
	}
}

// GET /api/reports?status=
func (ctl *ReportController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	ctx := c.UserContext()

	scope, err := studentRepo.ResolveScope(ctx, ctl.DB, actor)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	rows, err := repository.ListReports(ctx, ctl.DB, repository.ListFilter{
		Scope:  scope,
		Status: model.ReportStatus(strings.ToUpper(strings.TrimSpace(c.Query("status")))),
		Limit:  listLimit,
	})
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	return helper.JsonList(c, "Reports fetched", rows, nil)
}

// GET /api/reports/today
func (ctl *ReportController) Today(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	ctx := c.UserContext()

	st, err := studentRepo.FindByUserID(ctx, ctl.DB, actor.UserID)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	if st == nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Student profile not found")
	}

	r, err := repository.TodayReport(ctx, ctl.DB, st.StudentID, ctl.Service.Cutoff(ctl.Clock.NowMs()))
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	return helper.JsonOK(c, "Today's report", fiber.Map{
		"submitted": r != nil,
		"report":    r,
	})
}

// POST /api/reports
func (ctl *ReportController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	var req dto.CreateReportRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}

	r, err := ctl.Service.CreateDailyReport(c.UserContext(), actor, req.ToInput())
	metrics.RecordTransition("report", "create", err)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	ctl.Audit.Record(c.UserContext(), auditService.Entry{
		UserID:   actor.UserID,
		Action:   "CREATE_REPORT",
		Entity:   "report",
		EntityID: auditService.ID(r.ReportID),
		Details:  map[string]any{"late_minutes": r.ReportLateMinutes, "walk": r.ReportWalk, "exercise": r.ReportExercise},
	})
	return helper.JsonCreated(c, "Report submitted", r)
}

// POST /api/reports/:id/approve
func (ctl *ReportController) Approve(c *fiber.Ctx) error {
	var req dto.ApproveReportRequest
	return ctl.decide(c, &req, func() string { return req.Notes }, "approve", ctl.Service.ApproveReport)
}

// POST /api/reports/:id/reject
func (ctl *ReportController) Reject(c *fiber.Ctx) error {
	var req dto.RejectReportRequest
	return ctl.decide(c, &req, func() string { return req.Notes }, "reject", ctl.Service.RejectReport)
}

type decideFn func(ctx context.Context, actor helperAuth.Actor, id uuid.UUID, notes string) (*model.ReportModel, error)

func (ctl *ReportController) decide(c *fiber.Ctx, req any, notes func() string, action string, fn decideFn) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid report id")
	}

	// approve boleh tanpa body, reject divalidasi (notes wajib)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	r, err := fn(c.UserContext(), actor, id, notes())
	metrics.RecordTransition("report", action, err)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	auditAction := "REJECT_REPORT"
	msg := "Report rejected"
	if action == "approve" {
		auditAction = "APPROVE_REPORT_" + strings.ToUpper(actor.Role)
		msg = "Report approved"
	}
	ctl.Audit.Record(c.UserContext(), auditService.Entry{
		UserID:   actor.UserID,
		Action:   auditAction,
		Entity:   "report",
		EntityID: auditService.ID(r.ReportID),
		Details:  map[string]any{"new_status": r.ReportStatus, "notes": notes()},
	})
	return helper.JsonUpdated(c, msg, r)
}
