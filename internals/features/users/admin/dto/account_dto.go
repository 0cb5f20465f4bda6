package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nothotgamer/hostelixpro/internals/features/users/admin/service"
	userModel "github.com/nothotgamer/hostelixpro/internals/features/users/model"
)

type StudentDetails struct {
	AdmissionNo       string           `json:"admission_no" validate:"required,max=40"`
	Room              *string          `json:"room" validate:"omitempty,max=20"`
	AssignedTeacherID *uuid.UUID       `json:"assigned_teacher_id"`
	MonthlyFee        *decimal.Decimal `json:"monthly_fee"`
	FeeStructureID    *uuid.UUID       `json:"fee_structure_id"`
	GuardianName      string           `json:"guardian_name" validate:"max=150"`
	Phone             string           `json:"phone" validate:"max=30"`
}

// CreateAccountRequest: student wajib diisi kalau role = student.
type CreateAccountRequest struct {
	Email    string          `json:"email" validate:"required,email,max=150"`
	Password string          `json:"password" validate:"required,min=6,max=72"`
	FullName string          `json:"full_name" validate:"required,min=2,max=150"`
	Role     string          `json:"role" validate:"required"`
	Student  *StudentDetails `json:"student"`
}

func (r CreateAccountRequest) ToInput() service.CreateAccountInput {
	in := service.CreateAccountInput{
		Email:    r.Email,
		Password: r.Password,
		FullName: r.FullName,
		Role:     r.Role,
	}
	if s := r.Student; s != nil {
		in.Student = &service.StudentInput{
			AdmissionNo:       s.AdmissionNo,
			Room:              s.Room,
			AssignedTeacherID: s.AssignedTeacherID,
			MonthlyFee:        s.MonthlyFee,
			FeeStructureID:    s.FeeStructureID,
			GuardianName:      s.GuardianName,
			Phone:             s.Phone,
		}
	}
	return in
}

type UpdateAccountRequest struct {
	Email    *string `json:"email" validate:"omitempty,email,max=150"`
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=150"`
	Role     *string `json:"role"`
}

func (r UpdateAccountRequest) ToPatch() service.AccountPatch {
	return service.AccountPatch{Email: r.Email, FullName: r.FullName, Role: r.Role}
}

// LockRequest: is_locked kosong = toggle.
type LockRequest struct {
	IsLocked *bool `json:"is_locked"`
}

type UpdateStudentRequest struct {
	AdmissionNo       *string          `json:"admission_no" validate:"omitempty,max=40"`
	Room              *string          `json:"room" validate:"omitempty,max=20"`
	AssignedTeacherID *uuid.UUID       `json:"assigned_teacher_id"`
	UnassignTeacher   bool             `json:"unassign_teacher"`
	MonthlyFee        *decimal.Decimal `json:"monthly_fee"`
	FeeStructureID    *uuid.UUID       `json:"fee_structure_id"`
}

func (r UpdateStudentRequest) ToPatch() service.StudentPatch {
	return service.StudentPatch{
		AdmissionNo:       r.AdmissionNo,
		Room:              r.Room,
		AssignedTeacherID: r.AssignedTeacherID,
		UnassignTeacher:   r.UnassignTeacher,
		MonthlyFee:        r.MonthlyFee,
		FeeStructureID:    r.FeeStructureID,
	}
}

// RosterItem is one row of a teacher's "my students" list.
type RosterItem struct {
	StudentID   uuid.UUID        `json:"student_id"`
	UserID      uuid.UUID        `json:"user_id"`
	FullName    string           `json:"full_name"`
	AdmissionNo string           `json:"admission_no"`
	MonthlyFee  *decimal.Decimal `json:"monthly_fee,omitempty"`
}

// UserListItem is the admin view of an account.
type UserListItem struct {
	userModel.UserModel
	StudentID   *uuid.UUID `json:"student_id,omitempty" gorm:"column:student_id"`
	AdmissionNo *string    `json:"admission_no,omitempty" gorm:"column:student_admission_no"`
	Room        *string    `json:"room,omitempty" gorm:"column:student_room"`
	TeacherID   *uuid.UUID `json:"assigned_teacher_id,omitempty" gorm:"column:student_assigned_teacher_id"`
}
