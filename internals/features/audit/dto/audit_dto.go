package dto

import "github.com/nothotgamer/hostelixpro/internals/features/audit/model"

// AuditLogItem is an audit row with the acting user's email and name.
type AuditLogItem struct {
	model.AuditLogModel
	UserEmail *string `json:"user_email,omitempty" gorm:"column:user_email"`
	UserName  *string `json:"user_name,omitempty" gorm:"column:user_full_name"`
}
