// file: internals/features/fees/model/fee_model.go
package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- ENUM fee_status ---------------------------------------------------------
type FeeStatus string

const (
	FeeStatusPendingAdmin FeeStatus = "PENDING_ADMIN"
	FeeStatusApproved     FeeStatus = "APPROVED"
	FeeStatusPartial      FeeStatus = "PARTIAL"
	FeeStatusRejected     FeeStatus = "REJECTED"

	// legacy, never produced by the ledger but valid in storage
	FeeStatusUnpaid FeeStatus = "UNPAID"
	FeeStatusPaid   FeeStatus = "PAID"
)

// IsSettled: fee sudah lunas, tidak menerima submission baru.
func (s FeeStatus) IsSettled() bool {
	return s == FeeStatusApproved || s == FeeStatusPaid
}

// --- MODEL fees --------------------------------------------------------------
// One row per (student, month, year).
type FeeModel struct {
	FeeID          uuid.UUID  `json:"fee_id" gorm:"column:fee_id;type:uuid;default:gen_random_uuid();primaryKey"`
	FeeStudentID   uuid.UUID  `json:"fee_student_id" gorm:"column:fee_student_id;type:uuid;not null;uniqueIndex:uq_fees_student_period,priority:1"`
	FeeStructureID *uuid.UUID `json:"fee_structure_id,omitempty" gorm:"column:fee_structure_id;type:uuid"`

	// Periode
	FeeMonth int `json:"fee_month" gorm:"column:fee_month;type:smallint;not null;uniqueIndex:uq_fees_student_period,priority:2"`
	FeeYear  int `json:"fee_year" gorm:"column:fee_year;type:smallint;not null;uniqueIndex:uq_fees_student_period,priority:3"`

	// Nominal
	FeeExpectedAmount decimal.Decimal `json:"fee_expected_amount" gorm:"column:fee_expected_amount;type:numeric(10,2);not null"`
	FeePaidAmount     decimal.Decimal `json:"fee_paid_amount" gorm:"column:fee_paid_amount;type:numeric(10,2);not null;default:0"`
	FeeLateFee        decimal.Decimal `json:"fee_late_fee" gorm:"column:fee_late_fee;type:numeric(10,2);not null;default:0"`

	FeeStatus          FeeStatus `json:"fee_status" gorm:"column:fee_status;type:varchar(20);not null;default:'PENDING_ADMIN'"`
	FeeDueDate         *int64    `json:"fee_due_date,omitempty" gorm:"column:fee_due_date"`
	FeeRejectionReason *string   `json:"fee_rejection_reason,omitempty" gorm:"column:fee_rejection_reason;type:text"`

	// Settlement
	FeePaidAt           *int64     `json:"fee_paid_at,omitempty" gorm:"column:fee_paid_at"`
	FeeApprovedAt       *int64     `json:"fee_approved_at,omitempty" gorm:"column:fee_approved_at"`
	FeeApprovedByUserID *uuid.UUID `json:"fee_approved_by_user_id,omitempty" gorm:"column:fee_approved_by_user_id;type:uuid"`

	FeeCreatedAt int64 `json:"fee_created_at" gorm:"column:fee_created_at;not null"`
	FeeUpdatedAt int64 `json:"fee_updated_at" gorm:"column:fee_updated_at;not null"`

	Transactions []FeeTransactionModel `json:"transactions,omitempty" gorm:"foreignKey:FeeTransactionFeeID;references:FeeID"`
}

func (FeeModel) TableName() string { return "fees" }
