package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nothotgamer/hostelixpro/internals/constants"
	"github.com/nothotgamer/hostelixpro/internals/helpers/apperr"
	helperAuth "github.com/nothotgamer/hostelixpro/internals/helpers/auth"
)

// Scope is the set of students an actor may read. All=true means no filter.
type Scope struct {
	All        bool
	StudentIDs []uuid.UUID
}

// Apply narrows q to the scope using the given student id column.
func (s Scope) Apply(q *gorm.DB, column string) *gorm.DB {
	if s.All {
		return q
	}
	if len(s.StudentIDs) == 0 {
		return q.Where("1 = 0")
	}
	return q.Where(column+" IN ?", s.StudentIDs)
}

// Allows reports whether studentID falls inside the scope.
func (s Scope) Allows(studentID uuid.UUID) bool {
	if s.All {
		return true
	}
	for _, id := range s.StudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}

// ResolveScope: student → dirinya sendiri, teacher → murid binaan,
// admin & routine_manager → semua.
func ResolveScope(ctx context.Context, db *gorm.DB, actor helperAuth.Actor) (Scope, error) {
	switch actor.Role {
	case constants.RoleAdmin, constants.RoleRoutineManager:
		return Scope{All: true}, nil
	case constants.RoleTeacher:
		ids, err := IDsAssignedToTeacher(ctx, db, actor.UserID)
		if err != nil {
			return Scope{}, fmt.Errorf("assigned students: %w", err)
		}
		return Scope{StudentIDs: ids}, nil
	case constants.RoleStudent:
		s, err := FindByUserID(ctx, db, actor.UserID)
		if err != nil {
			return Scope{}, fmt.Errorf("find student: %w", err)
		}
		if s == nil {
			return Scope{}, apperr.NotFound("Student profile not found")
		}
		return Scope{StudentIDs: []uuid.UUID{s.StudentID}}, nil
	default:
		return Scope{}, apperr.Unauthorized("Unknown role")
	}
}

// Roster is a student joined with their user row.
type Roster struct {
	StudentID          uuid.UUID        `gorm:"column:student_id"`
	StudentUserID      uuid.UUID        `gorm:"column:student_user_id"`
	StudentAdmissionNo string           `gorm:"column:student_admission_no"`
	StudentMonthlyFee  *decimal.Decimal `gorm:"column:student_monthly_fee"`
	StudentStructureID *uuid.UUID       `gorm:"column:student_fee_structure_id"`
	UserFullName       string           `gorm:"column:user_full_name"`
}

// ListRoster returns students of unlocked users, optionally filtered by a
// case-insensitive search over name and admission number.
func ListRoster(ctx context.Context, db *gorm.DB, scope Scope, search string) ([]Roster, error) {
	q := db.WithContext(ctx).
		Table("students").
		Select("students.student_id, students.student_user_id, students.student_admission_no, students.student_monthly_fee, students.student_fee_structure_id, users.user_full_name").
		Joins("JOIN users ON users.user_id = students.student_user_id").
		Where("users.user_is_locked = ?", false)
	q = scope.Apply(q, "students.student_id")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("(users.user_full_name ILIKE ? OR students.student_admission_no ILIKE ?)", like, like)
	}

	var rows []Roster
	if err := q.Order("users.user_full_name ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountActive counts students whose user account is not locked.
func CountActive(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Table("students").
		Joins("JOIN users ON users.user_id = students.student_user_id").
		Where("users.user_is_locked = ?", false).
		Count(&n).Error
	return n, err
}
