package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	feeModel "github.com/nothotgamer/hostelixpro/internals/features/fees/model"
	reportModel "github.com/nothotgamer/hostelixpro/internals/features/reports/model"
	routineModel "github.com/nothotgamer/hostelixpro/internals/features/routines/model"
	studentRepo "github.com/nothotgamer/hostelixpro/internals/features/students/repository"
)

type studentCount struct {
	StudentID uuid.UUID `gorm:"column:student_id"`
	N         int64     `gorm:"column:n"`
}

func toMap(rows []studentCount) map[uuid.UUID]int64 {
	out := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		out[r.StudentID] = r.N
	}
	return out
}

func CountUsers(ctx context.Context, db *gorm.DB, lockedOnly bool) (int64, error) {
	q := db.WithContext(ctx).Table("users")
	if lockedOnly {
		q = q.Where("user_is_locked = ?", true)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// CountReports counts reports inside scope; zero status or sinceMs means no
// filter on that column.
func CountReports(ctx context.Context, db *gorm.DB, scope studentRepo.Scope, status reportModel.ReportStatus, sinceMs int64) (int64, error) {
	q := scope.Apply(db.WithContext(ctx).Model(&reportModel.ReportModel{}), "report_student_id")
	if status != "" {
		q = q.Where("report_status = ?", status)
	}
	if sinceMs > 0 {
		q = q.Where("report_wake_time > ?", sinceMs)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func CountPendingTransactions(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&feeModel.FeeTransactionModel{}).
		Where("fee_transaction_status = ?", feeModel.TransactionPending).
		Count(&n).Error
	return n, err
}

// CountRoutines counts routines of one type (empty = any) in the given statuses.
func CountRoutines(ctx context.Context, db *gorm.DB, typ routineModel.RoutineType, statuses ...routineModel.RoutineStatus) (int64, error) {
	q := db.WithContext(ctx).
		Model(&routineModel.RoutineModel{}).
		Where("routine_status IN ?", statuses)
	if typ != "" {
		q = q.Where("routine_type = ?", typ)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// CountStalePending counts requests still waiting for the manager that were
// created before cutoffMs.
func CountStalePending(ctx context.Context, db *gorm.DB, cutoffMs int64) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&routineModel.RoutineModel{}).
		Where("routine_status = ? AND routine_created_at < ?", routineModel.RoutinePendingManager, cutoffMs).
		Count(&n).Error
	return n, err
}

// LatestReportsSince returns the newest report per student after sinceMs.
func LatestReportsSince(ctx context.Context, db *gorm.DB, studentIDs []uuid.UUID, sinceMs int64) (map[uuid.UUID]reportModel.ReportModel, error) {
	out := map[uuid.UUID]reportModel.ReportModel{}
	if len(studentIDs) == 0 {
		return out, nil
	}
	var rows []reportModel.ReportModel
	if err := db.WithContext(ctx).
		Where("report_student_id IN ? AND report_wake_time > ?", studentIDs, sinceMs).
		Order("report_wake_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	// ASC: yang terakhir menimpa
	for _, r := range rows {
		out[r.ReportStudentID] = r
	}
	return out, nil
}

// ActiveRoutines returns each student's open routine, if any.
func ActiveRoutines(ctx context.Context, db *gorm.DB, studentIDs []uuid.UUID) (map[uuid.UUID]routineModel.RoutineModel, error) {
	out := map[uuid.UUID]routineModel.RoutineModel{}
	if len(studentIDs) == 0 {
		return out, nil
	}
	var rows []routineModel.RoutineModel
	if err := db.WithContext(ctx).
		Where("routine_student_id IN ? AND routine_status IN ?", studentIDs, routineModel.ActiveStatuses).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.RoutineStudentID] = r
	}
	return out, nil
}

func PendingReportCounts(ctx context.Context, db *gorm.DB, studentIDs []uuid.UUID, status reportModel.ReportStatus) (map[uuid.UUID]int64, error) {
	if len(studentIDs) == 0 {
		return map[uuid.UUID]int64{}, nil
	}
	var rows []studentCount
	if err := db.WithContext(ctx).
		Model(&reportModel.ReportModel{}).
		Select("report_student_id AS student_id, COUNT(*) AS n").
		Where("report_student_id IN ? AND report_status = ?", studentIDs, status).
		Group("report_student_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toMap(rows), nil
}

// PendingFeeCounts counts fees still waiting for admin approval per student.
func PendingFeeCounts(ctx context.Context, db *gorm.DB, studentIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	if len(studentIDs) == 0 {
		return map[uuid.UUID]int64{}, nil
	}
	var rows []studentCount
	if err := db.WithContext(ctx).
		Model(&feeModel.FeeModel{}).
		Select("fee_student_id AS student_id, COUNT(*) AS n").
		Where("fee_student_id IN ? AND fee_status = ?", studentIDs, feeModel.FeeStatusPendingAdmin).
		Group("fee_student_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toMap(rows), nil
}

// RecentRoutines lists routines touched since sinceMs, newest first.
func RecentRoutines(ctx context.Context, db *gorm.DB, sinceMs int64, limit int) ([]routineModel.RoutineWithStudent, error) {
	var rows []routineModel.RoutineWithStudent
	err := db.WithContext(ctx).
		Table("routines").
		Select("routines.*, users.user_full_name AS student_name, students.student_admission_no").
		Joins("JOIN students ON students.student_id = routines.routine_student_id").
		Joins("JOIN users ON users.user_id = students.student_user_id").
		Where("routines.routine_updated_at >= ?", sinceMs).
		Order("routines.routine_updated_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
