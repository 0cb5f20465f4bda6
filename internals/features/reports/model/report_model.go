package model

import (
	"github.com/google/uuid"
)

type ReportStatus string

const (
	ReportPendingTeacher ReportStatus = "PENDING_TEACHER"
	ReportPendingAdmin   ReportStatus = "PENDING_ADMIN"
	ReportApproved       ReportStatus = "APPROVED"
	ReportRejected       ReportStatus = "REJECTED"
)

func (s ReportStatus) IsTerminal() bool {
	return s == ReportApproved || s == ReportRejected
}

// ReportModel is one daily wake-up report.
type ReportModel struct {
	ReportID          uuid.UUID    `json:"report_id" gorm:"column:report_id;type:uuid;default:gen_random_uuid();primaryKey"`
	ReportStudentID   uuid.UUID    `json:"report_student_id" gorm:"column:report_student_id;type:uuid;not null"`
	ReportWakeTime    int64        `json:"report_wake_time" gorm:"column:report_wake_time;not null"`
	ReportStatus      ReportStatus `json:"report_status" gorm:"column:report_status;type:varchar(20);not null;default:'PENDING_TEACHER'"`
	ReportWalk        bool         `json:"report_walk" gorm:"column:report_walk;not null;default:false"`
	ReportExercise    bool         `json:"report_exercise" gorm:"column:report_exercise;not null;default:false"`
	ReportLateMinutes int          `json:"report_late_minutes" gorm:"column:report_late_minutes;not null;default:0"`
	ReportCreatedAt   int64        `json:"report_created_at" gorm:"column:report_created_at;not null"`
	ReportUpdatedAt   int64        `json:"report_updated_at" gorm:"column:report_updated_at;not null"`

	Actions []ReportActionModel `json:"actions,omitempty" gorm:"foreignKey:ReportActionReportID;references:ReportID"`
}

func (ReportModel) TableName() string { return "reports" }
