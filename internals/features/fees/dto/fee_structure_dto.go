package dto

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nothotgamer/hostelixpro/internals/features/fees/model"
)

type FeeStructureCreateRequest struct {
	Name          string          `json:"name" validate:"required,min=2,max=100"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount"`
	LateFeePerDay decimal.Decimal `json:"late_fee_per_day"`
	DueDay        int             `json:"due_day" validate:"omitempty,min=1,max=28"`
	IsDefault     bool            `json:"is_default"`
	Description   *string         `json:"description" validate:"omitempty,max=1000"`
}

func (r FeeStructureCreateRequest) ToModel() model.FeeStructureModel {
	due := r.DueDay
	if due == 0 {
		due = 10
	}
	return model.FeeStructureModel{
		FeeStructureName:          strings.TrimSpace(r.Name),
		FeeStructureMonthlyAmount: r.MonthlyAmount,
		FeeStructureLateFeePerDay: r.LateFeePerDay,
		FeeStructureDueDay:        due,
		FeeStructureIsDefault:     r.IsDefault,
		FeeStructureIsActive:      true,
		FeeStructureDescription:   r.Description,
	}
}

// FeeStructureUpdateRequest: semua field opsional (PATCH semantics).
type FeeStructureUpdateRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=2,max=100"`
	MonthlyAmount *decimal.Decimal `json:"monthly_amount"`
	LateFeePerDay *decimal.Decimal `json:"late_fee_per_day"`
	DueDay        *int             `json:"due_day" validate:"omitempty,min=1,max=28"`
	IsDefault     *bool            `json:"is_default"`
	IsActive      *bool            `json:"is_active"`
	Description   *string          `json:"description" validate:"omitempty,max=1000"`
}

func (r FeeStructureUpdateRequest) Apply(m *model.FeeStructureModel) {
	if r.Name != nil {
		m.FeeStructureName = strings.TrimSpace(*r.Name)
	}
	if r.MonthlyAmount != nil {
		m.FeeStructureMonthlyAmount = *r.MonthlyAmount
	}
	if r.LateFeePerDay != nil {
		m.FeeStructureLateFeePerDay = *r.LateFeePerDay
	}
	if r.DueDay != nil {
		m.FeeStructureDueDay = *r.DueDay
	}
	if r.IsDefault != nil {
		m.FeeStructureIsDefault = *r.IsDefault
	}
	if r.IsActive != nil {
		m.FeeStructureIsActive = *r.IsActive
	}
	if r.Description != nil {
		m.FeeStructureDescription = r.Description
	}
}

// AmountsValid: nominal tidak boleh negatif, maksimal 2 desimal.
func AmountsValid(amounts ...decimal.Decimal) bool {
	for _, a := range amounts {
		if a.IsNegative() || !a.Equal(a.Round(2)) {
			return false
		}
	}
	return true
}
