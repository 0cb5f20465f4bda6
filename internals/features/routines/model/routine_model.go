package model

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type RoutineType string

const (
	RoutineWalk   RoutineType = "walk"
	RoutineExit   RoutineType = "exit"
	RoutineReturn RoutineType = "return"
)

// Requestable: return hanya label histori, tidak bisa diajukan langsung.
func (t RoutineType) Requestable() bool {
	return t == RoutineWalk || t == RoutineExit
}

type RoutineStatus string

const (
	RoutinePendingManager        RoutineStatus = "PENDING_ROUTINE_MANAGER"
	RoutineApprovedPendingReturn RoutineStatus = "APPROVED_PENDING_RETURN"
	RoutinePendingReturnApproval RoutineStatus = "PENDING_RETURN_APPROVAL"
	RoutineCompleted             RoutineStatus = "COMPLETED"
	RoutineRejected              RoutineStatus = "REJECTED"
	RoutineReturnRejected        RoutineStatus = "RETURN_REJECTED"
)

// ActiveStatuses: at most one routine per student may sit in these.
var ActiveStatuses = []RoutineStatus{
	RoutinePendingManager,
	RoutineApprovedPendingReturn,
	RoutinePendingReturnApproval,
}

// OutStatuses: student sedang di luar asrama.
var OutStatuses = []RoutineStatus{
	RoutineApprovedPendingReturn,
	RoutinePendingReturnApproval,
}

func (s RoutineStatus) IsActive() bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

func (s RoutineStatus) IsTerminal() bool {
	return s == RoutineCompleted || s == RoutineRejected || s == RoutineReturnRejected
}

type RoutineModel struct {
	RoutineID        uuid.UUID     `json:"routine_id" gorm:"column:routine_id;type:uuid;default:gen_random_uuid();primaryKey"`
	RoutineStudentID uuid.UUID     `json:"routine_student_id" gorm:"column:routine_student_id;type:uuid;not null"`
	RoutineType      RoutineType   `json:"routine_type" gorm:"column:routine_type;type:varchar(10);not null"`
	RoutineStatus    RoutineStatus `json:"routine_status" gorm:"column:routine_status;type:varchar(30);not null;default:'PENDING_ROUTINE_MANAGER'"`
	RoutineRequestAt int64         `json:"routine_request_time" gorm:"column:routine_request_time;not null"`

	// Payload bebas (alasan, kontak, dsb.)
	RoutinePayload     datatypes.JSON `json:"routine_payload" gorm:"column:routine_payload;type:jsonb;not null;default:'{}'"`
	RoutineCompanions  pq.StringArray `json:"routine_companions" gorm:"column:routine_companions;type:text[];not null;default:'{}'"`
	RoutineDestination *string        `json:"routine_destination,omitempty" gorm:"column:routine_destination;type:text"`

	RoutineRejectionReason *string `json:"routine_rejection_reason,omitempty" gorm:"column:routine_rejection_reason;type:text"`
	RoutineManagerNotes    *string `json:"routine_manager_notes,omitempty" gorm:"column:routine_manager_notes;type:text"`

	RoutineExpectedReturnTime *int64 `json:"routine_expected_return_time,omitempty" gorm:"column:routine_expected_return_time"`
	RoutineActualReturnTime   *int64 `json:"routine_actual_return_time,omitempty" gorm:"column:routine_actual_return_time"`

	RoutineReviewedByUserID *uuid.UUID `json:"routine_reviewed_by_user_id,omitempty" gorm:"column:routine_reviewed_by_user_id;type:uuid"`
	RoutineReviewedAt       *int64     `json:"routine_reviewed_at,omitempty" gorm:"column:routine_reviewed_at"`

	RoutineCreatedAt int64 `json:"routine_created_at" gorm:"column:routine_created_at;not null"`
	RoutineUpdatedAt int64 `json:"routine_updated_at" gorm:"column:routine_updated_at;not null"`
}

func (RoutineModel) TableName() string { return "routines" }
