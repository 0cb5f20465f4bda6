package controller

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nothotgamer/hostelixpro/internals/constants"
	auditService "github.com/nothotgamer/hostelixpro/internals/features/audit/service"
	"github.com/nothotgamer/hostelixpro/internals/features/fees/dto"
	"github.com/nothotgamer/hostelixpro/internals/features/fees/repository"
	"github.com/nothotgamer/hostelixpro/internals/features/fees/service"
	helper "github.com/nothotgamer/hostelixpro/internals/helpers"
	helperAuth "github.com/nothotgamer/hostelixpro/internals/helpers/auth"
	"github.com/nothotgamer/hostelixpro/internals/helpers/dbtime"
	"github.com/nothotgamer/hostelixpro/internals/metrics"
)

type FeeController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Ledger    *service.LedgerService
	Audit     *auditService.Recorder
	Log       *zap.Logger
	Loc       *time.Location
}

func NewFeeController(db *gorm.DB, clock dbtime.Clock, loc *time.Location, audit *auditService.Recorder, log *zap.Logger) *FeeController {
	return &FeeController{
		DB:        db,
		Validator: validator.New(),
		Ledger:    service.NewLedgerService(repository.NewLedgerRepository(db), clock, loc),
		Audit:     audit,
		Log:       log.Named("fees"),
		Loc:       loc,
	}
}

// POST /api/fees
func (ctl *FeeController) SubmitFee(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	var req dto.SubmitFeeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if p := strings.TrimSpace(req.ProofPath); p != "" && !constants.IsAllowedProofFile(p) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Proof must be an image or PDF")
	}

	txn, err := ctl.Ledger.SubmitTransaction(c.UserContext(), actor, req.ToInput())
	metrics.RecordTransition("fee_transaction", "submit", err)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	ctl.Audit.Record(c.UserContext(), auditService.Entry{
		UserID:   actor.UserID,
		Action:   "SUBMIT_FEE_TRANSACTION",
		Entity:   "fee_transaction",
		EntityID: auditService.ID(txn.FeeTransactionID),
		Details: map[string]any{
			"fee_id": txn.FeeTransactionFeeID,
			"amount": txn.FeeTransactionAmount.StringFixed(2),
			"month":  req.Month,
			"year":   req.Year,
		},
	})
	return helper.JsonCreated(c, "Payment submitted for review", dto.ToTransactionResponse(*txn))
}

// POST /api/fees/transactions/:id/approve
func (ctl *FeeController) ApproveTransaction(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid transaction id")
	}

	txn, err := ctl.Ledger.ApproveTransaction(c.UserContext(), actor, id)
	metrics.RecordTransition("fee_transaction", "approve", err)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	ctl.Audit.Record(c.UserContext(), auditService.Entry{
		UserID:   actor.UserID,
		Action:   "APPROVE_TRANSACTION",
		Entity:   "fee_transaction",
		EntityID: auditService.ID(txn.FeeTransactionID),
		Details:  map[string]any{"fee_id": txn.FeeTransactionFeeID, "amount": txn.FeeTransactionAmount.StringFixed(2)},
	})
	return helper.JsonUpdated(c, "Transaction approved", dto.ToTransactionResponse(*txn))
}

// POST /api/fees/transactions/:id/reject
func (ctl *FeeController) RejectTransaction(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid transaction id")
	}

	var req dto.RejectTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	txn, err := ctl.Ledger.RejectTransaction(c.UserContext(), actor, id, req.Reason)
	metrics.RecordTransition("fee_transaction", "reject", err)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	ctl.Audit.Record(c.UserContext(), auditService.Entry{
		UserID:   actor.UserID,
		Action:   "REJECT_TRANSACTION",
		Entity:   "fee_transaction",
		EntityID: auditService.ID(txn.FeeTransactionID),
		Details:  map[string]any{"fee_id": txn.FeeTransactionFeeID, "reason": req.Reason},
	})
	return helper.JsonUpdated(c, "Transaction rejected", dto.ToTransactionResponse(*txn))
}
