package model

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditLogModel struct {
	AuditLogID        uuid.UUID      `json:"audit_log_id" gorm:"column:audit_log_id;type:uuid;default:gen_random_uuid();primaryKey"`
	AuditLogUserID    *uuid.UUID     `json:"audit_log_user_id,omitempty" gorm:"column:audit_log_user_id;type:uuid"`
	AuditLogAction    string         `json:"audit_log_action" gorm:"column:audit_log_action;type:varchar(60);not null"`
	AuditLogEntity    string         `json:"audit_log_entity" gorm:"column:audit_log_entity;type:varchar(40);not null"`
	AuditLogEntityID  *uuid.UUID     `json:"audit_log_entity_id,omitempty" gorm:"column:audit_log_entity_id;type:uuid"`
	AuditLogDetails   datatypes.JSON `json:"audit_log_details" gorm:"column:audit_log_details;type:jsonb;not null"`
	AuditLogTimestamp int64          `json:"audit_log_timestamp" gorm:"column:audit_log_timestamp;not null"`
}

func (AuditLogModel) TableName() string { return "audit_logs" }
