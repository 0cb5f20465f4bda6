package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nothotgamer/hostelixpro/internals/features/routines/model"
)

// ListFilter narrows the routine listings. Zero values mean "no filter".
type ListFilter struct {
	StudentID *uuid.UUID
	Statuses  []model.RoutineStatus
	FromMs    int64 // inclusive, on request time
	ToMs      int64 // exclusive
	Limit     int
	OrderAsc  bool
}

func ListRoutines(ctx context.Context, db *gorm.DB, f ListFilter) ([]model.RoutineWithStudent, error) {
	q := db.WithContext(ctx).
		Table("routines").
		Select("routines.*, users.user_full_name AS student_name, students.student_admission_no").
		Joins("JOIN students ON students.student_id = routines.routine_student_id").
		Joins("JOIN users ON users.user_id = students.student_user_id")

	if f.StudentID != nil {
		q = q.Where("routines.routine_student_id = ?", *f.StudentID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("routines.routine_status IN ?", f.Statuses)
	}
	if f.FromMs > 0 {
		q = q.Where("routines.routine_request_time >= ?", f.FromMs)
	}
	if f.ToMs > 0 {
		q = q.Where("routines.routine_request_time < ?", f.ToMs)
	}
	if f.OrderAsc {
		q = q.Order("routines.routine_request_time ASC")
	} else {
		q = q.Order("routines.routine_request_time DESC")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var rows []model.RoutineWithStudent
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func CountByStatuses(ctx context.Context, db *gorm.DB, statuses ...model.RoutineStatus) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&model.RoutineModel{}).
		Where("routine_status IN ?", statuses).
		Count(&n).Error
	return n, err
}

// CountOverdue counts approved exits whose expected return time has passed.
func CountOverdue(ctx context.Context, db *gorm.DB, nowMs int64) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&model.RoutineModel{}).
		Where("routine_status = ? AND routine_expected_return_time IS NOT NULL AND routine_expected_return_time < ?",
			model.RoutineApprovedPendingReturn, nowMs).
		Count(&n).Error
	return n, err
}
