package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/nothotgamer/hostelixpro/internals/features/reports/model"
	studentModel "github.com/nothotgamer/hostelixpro/internals/features/students/model"
)

// ReportStore is the record store behind the report workflow. Find*/Lock*
// return nil, nil when nothing matches.
type ReportStore interface {
	Transaction(ctx context.Context, fn func(tx ReportStore) error) error

	// LockStudentByUserID serialises report creation per student.
	LockStudentByUserID(ctx context.Context, userID uuid.UUID) (*studentModel.StudentModel, error)

	// FindReportSince returns the student's newest report with wake time
	// strictly after sinceMs.
	FindReportSince(ctx context.Context, studentID uuid.UUID, sinceMs int64) (*model.ReportModel, error)
	LockReport(ctx context.Context, id uuid.UUID) (*model.ReportModel, error)
	CreateReport(ctx context.Context, r *model.ReportModel) error
	SaveReport(ctx context.Context, r *model.ReportModel) error
	AppendAction(ctx context.Context, a *model.ReportActionModel) error
}
