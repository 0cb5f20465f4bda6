package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nothotgamer/hostelixpro/internals/features/reports/model"
	"github.com/nothotgamer/hostelixpro/internals/features/reports/service"
	studentModel "github.com/nothotgamer/hostelixpro/internals/features/students/model"
	studentRepo "github.com/nothotgamer/hostelixpro/internals/features/students/repository"
)

// ReportRepository is the Postgres-backed service.ReportStore.
type ReportRepository struct {
	db *gorm.DB
}

var _ service.ReportStore = (*ReportRepository)(nil)

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Transaction(ctx context.Context, fn func(tx service.ReportStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ReportRepository{db: tx})
	})
}

func (r *ReportRepository) LockStudentByUserID(ctx context.Context, userID uuid.UUID) (*studentModel.StudentModel, error) {
	return studentRepo.LockByUserID(ctx, r.db, userID)
}

func (r *ReportRepository) FindReportSince(ctx context.Context, studentID uuid.UUID, sinceMs int64) (*model.ReportModel, error) {
	var row model.ReportModel
	err := r.db.WithContext(ctx).
		Where("report_student_id = ? AND report_wake_time > ?", studentID, sinceMs).
		Order("report_wake_time DESC").
		Take(&row).Error
	return nilIfMissing(&row, err)
}

// LockReport mengunci baris report lalu memuat jejak aksinya (terlama dulu),
// supaya response approve/reject membawa riwayat lengkap.
func (r *ReportRepository) LockReport(ctx context.Context, id uuid.UUID) (*model.ReportModel, error) {
	var row model.ReportModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("report_id = ?", id).
		Take(&row).Error
	got, err := nilIfMissing(&row, err)
	if got == nil || err != nil {
		return got, err
	}
	if err := r.db.WithContext(ctx).
		Where("report_action_report_id = ?", id).
		Order("report_action_timestamp ASC").
		Find(&got.Actions).Error; err != nil {
		return nil, err
	}
	return got, nil
}

func (r *ReportRepository) CreateReport(ctx context.Context, row *model.ReportModel) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error
}

func (r *ReportRepository) SaveReport(ctx context.Context, row *model.ReportModel) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(row).Error
}

func (r *ReportRepository) AppendAction(ctx context.Context, a *model.ReportActionModel) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func nilIfMissing[T any](v *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
