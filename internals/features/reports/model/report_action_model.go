package model

import (
	"github.com/google/uuid"
)

type ReportActionType string

const (
	ActionApprove ReportActionType = "APPROVE"
	ActionReject  ReportActionType = "REJECT"
)

// ReportActionModel: log keputusan per report, append-only.
type ReportActionModel struct {
	ReportActionID          uuid.UUID        `json:"report_action_id" gorm:"column:report_action_id;type:uuid;default:gen_random_uuid();primaryKey"`
	ReportActionReportID    uuid.UUID        `json:"report_action_report_id" gorm:"column:report_action_report_id;type:uuid;not null"`
	ReportActionActorUserID uuid.UUID        `json:"report_action_actor_user_id" gorm:"column:report_action_actor_user_id;type:uuid;not null"`
	ReportActionActorRole   string           `json:"report_action_actor_role" gorm:"column:report_action_actor_role;type:varchar(20);not null"`
	ReportActionType        ReportActionType `json:"report_action_type" gorm:"column:report_action_type;type:varchar(10);not null"`
	ReportActionNotes       *string          `json:"report_action_notes,omitempty" gorm:"column:report_action_notes;type:text"`
	ReportActionTimestamp   int64            `json:"report_action_timestamp" gorm:"column:report_action_timestamp;not null"`
}

func (ReportActionModel) TableName() string { return "report_actions" }
