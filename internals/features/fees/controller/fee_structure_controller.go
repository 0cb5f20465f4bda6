package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	auditService "github.com/nothotgamer/hostelixpro/internals/features/audit/service"
	"github.com/nothotgamer/hostelixpro/internals/features/fees/dto"
	"github.com/nothotgamer/hostelixpro/internals/features/fees/model"
	helper "github.com/nothotgamer/hostelixpro/internals/helpers"
	helperAuth "github.com/nothotgamer/hostelixpro/internals/helpers/auth"
)

// GET /api/fees/structures
func (ctl *FeeController) ListStructures(c *fiber.Ctx) error {
	q := ctl.DB.WithContext(c.UserContext()).Model(&model.FeeStructureModel{})
	if !c.QueryBool("include_inactive") {
		q = q.Where("fee_structure_is_active = ?", true)
	}

	var rows []model.FeeStructureModel
	if err := q.Order("fee_structure_is_default DESC, fee_structure_name ASC").Find(&rows).Error; err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	return helper.JsonList(c, "Fee structures fetched", rows, nil)
}

// POST /api/fees/structures
func (ctl *FeeController) CreateStructure(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	var req dto.FeeStructureCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if !req.MonthlyAmount.IsPositive() || !dto.AmountsValid(req.MonthlyAmount, req.LateFeePerDay) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Amounts must be non-negative with at most two decimals, monthly amount above zero")
	}

	row := req.ToModel()
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if row.FeeStructureIsDefault {
			if err := clearDefault(tx, uuid.Nil); err != nil {
				return err
			}
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	ctl.Audit.Record(c.UserContext(), auditService.Entry{
		UserID:   actor.UserID,
		Action:   "CREATE_FEE_STRUCTURE",
		Entity:   "fee_structure",
		EntityID: auditService.ID(row.FeeStructureID),
		Details:  map[string]any{"name": row.FeeStructureName, "monthly_amount": row.FeeStructureMonthlyAmount.StringFixed(2)},
	})
	return helper.JsonCreated(c, "Fee structure created", row)
}

// PUT /api/fees/structures/:id
func (ctl *FeeController) UpdateStructure(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid fee structure id")
	}

	var req dto.FeeStructureUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var row model.FeeStructureModel
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("fee_structure_id = ?", id).Take(&row).Error; err != nil {
			return err
		}
		req.Apply(&row)
		if !row.FeeStructureMonthlyAmount.IsPositive() ||
			!dto.AmountsValid(row.FeeStructureMonthlyAmount, row.FeeStructureLateFeePerDay) {
			return errInvalidAmounts
		}
		// default harus aktif
		if row.FeeStructureIsDefault && row.FeeStructureIsActive {
			if err := clearDefault(tx, row.FeeStructureID); err != nil {
				return err
			}
		} else {
			row.FeeStructureIsDefault = false
		}
		return tx.Save(&row).Error
	})
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Fee structure not found")
	case errors.Is(err, errInvalidAmounts):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		return helper.FromServiceError(c, ctl.Log, err)
	}

	ctl.Audit.Record(c.UserContext(), auditService.Entry{
		UserID:   actor.UserID,
		Action:   "UPDATE_FEE_STRUCTURE",
		Entity:   "fee_structure",
		EntityID: auditService.ID(row.FeeStructureID),
		Details:  map[string]any{"is_default": row.FeeStructureIsDefault, "is_active": row.FeeStructureIsActive},
	})
	return helper.JsonUpdated(c, "Fee structure updated", row)
}

var errInvalidAmounts = errors.New("Amounts must be non-negative with at most two decimals, monthly amount above zero")

// clearDefault unsets the current default so the partial unique index on
// is_default accepts the new one.
func clearDefault(tx *gorm.DB, except uuid.UUID) error {
	return tx.Model(&model.FeeStructureModel{}).
		Where("fee_structure_is_default = ? AND fee_structure_id <> ?", true, except).
		Update("fee_structure_is_default", false).Error
}
