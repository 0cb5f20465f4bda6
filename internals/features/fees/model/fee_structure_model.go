package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeStructureModel is a named monthly rate; the active default one seeds
// fees for students without a personal rate.
type FeeStructureModel struct {
	FeeStructureID            uuid.UUID       `json:"fee_structure_id" gorm:"column:fee_structure_id;type:uuid;default:gen_random_uuid();primaryKey"`
	FeeStructureName          string          `json:"fee_structure_name" gorm:"column:fee_structure_name;type:varchar(100);not null"`
	FeeStructureMonthlyAmount decimal.Decimal `json:"fee_structure_monthly_amount" gorm:"column:fee_structure_monthly_amount;type:numeric(10,2);not null"`
	FeeStructureLateFeePerDay decimal.Decimal `json:"fee_structure_late_fee_per_day" gorm:"column:fee_structure_late_fee_per_day;type:numeric(10,2);not null;default:0"`
	FeeStructureDueDay        int             `json:"fee_structure_due_day" gorm:"column:fee_structure_due_day;type:smallint;not null;default:10"`
	FeeStructureIsDefault     bool            `json:"fee_structure_is_default" gorm:"column:fee_structure_is_default;not null;default:false"`
	FeeStructureIsActive      bool            `json:"fee_structure_is_active" gorm:"column:fee_structure_is_active;not null;default:true"`
	FeeStructureDescription   *string         `json:"fee_structure_description,omitempty" gorm:"column:fee_structure_description;type:text"`
	FeeStructureCreatedAt     int64           `json:"fee_structure_created_at" gorm:"column:fee_structure_created_at;autoCreateTime:milli"`
	FeeStructureUpdatedAt     int64           `json:"fee_structure_updated_at" gorm:"column:fee_structure_updated_at;autoUpdateTime:milli"`
}

func (FeeStructureModel) TableName() string { return "fee_structures" }
