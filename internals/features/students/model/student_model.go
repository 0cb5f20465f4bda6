package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type StudentModel struct {
	StudentID                uuid.UUID        `json:"student_id" gorm:"column:student_id;type:uuid;default:gen_random_uuid();primaryKey"`
	StudentUserID            uuid.UUID        `json:"student_user_id" gorm:"column:student_user_id;type:uuid;not null;uniqueIndex"`
	StudentAdmissionNo       string           `json:"student_admission_no" gorm:"column:student_admission_no;type:varchar(40);not null"`
	StudentRoom              *string          `json:"student_room,omitempty" gorm:"column:student_room;type:varchar(20)"`
	StudentAssignedTeacherID *uuid.UUID       `json:"student_assigned_teacher_id,omitempty" gorm:"column:student_assigned_teacher_id;type:uuid"`
	StudentMonthlyFee        *decimal.Decimal `json:"student_monthly_fee,omitempty" gorm:"column:student_monthly_fee;type:numeric(10,2)"`
	StudentFeeStructureID    *uuid.UUID       `json:"student_fee_structure_id,omitempty" gorm:"column:student_fee_structure_id;type:uuid"`
	StudentProfile           datatypes.JSON   `json:"student_profile" gorm:"column:student_profile;type:jsonb;not null;default:'{}'"`
	StudentCreatedAt         int64            `json:"student_created_at" gorm:"column:student_created_at;autoCreateTime:milli"`
	StudentUpdatedAt         int64            `json:"student_updated_at" gorm:"column:student_updated_at;autoUpdateTime:milli"`
}

func (StudentModel) TableName() string { return "students" }

// HasMonthlyRate reports whether the student carries a positive personal rate.
func (s *StudentModel) HasMonthlyRate() bool {
	return s.StudentMonthlyFee != nil && s.StudentMonthlyFee.IsPositive()
}

// StudentProfileData is the shape stored in student_profile.
type StudentProfileData struct {
	FullName     string `json:"full_name,omitempty"`
	GuardianName string `json:"guardian_name,omitempty"`
	Phone        string `json:"phone,omitempty"`
}
