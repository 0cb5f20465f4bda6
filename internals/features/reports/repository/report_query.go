package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nothotgamer/hostelixpro/internals/features/reports/model"
	studentRepo "github.com/nothotgamer/hostelixpro/internals/features/students/repository"
)

type ListFilter struct {
	Scope  studentRepo.Scope
	Status model.ReportStatus
	Limit  int
}

// ListReports returns reports visible in the scope, newest first, with their
// action trail.
func ListReports(ctx context.Context, db *gorm.DB, f ListFilter) ([]model.ReportModel, error) {
	q := db.WithContext(ctx).Model(&model.ReportModel{})
	q = f.Scope.Apply(q, "report_student_id")
	if f.Status != "" {
		q = q.Where("report_status = ?", f.Status)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var rows []model.ReportModel
	err := q.
		Preload("Actions", func(db *gorm.DB) *gorm.DB {
			return db.Order("report_action_timestamp ASC")
		}).
		Order("report_wake_time DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TodayReport: report terbaru dalam window, nil kalau belum ada.
func TodayReport(ctx context.Context, db *gorm.DB, studentID uuid.UUID, sinceMs int64) (*model.ReportModel, error) {
	var row model.ReportModel
	err := db.WithContext(ctx).
		Preload("Actions", func(db *gorm.DB) *gorm.DB {
			return db.Order("report_action_timestamp ASC")
		}).
		Where("report_student_id = ? AND report_wake_time > ?", studentID, sinceMs).
		Order("report_wake_time DESC").
		Take(&row).Error
	return nilIfMissing(&row, err)
}
