package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nothotgamer/hostelixpro/internals/features/routines/model"
	"github.com/nothotgamer/hostelixpro/internals/features/routines/service"
	studentModel "github.com/nothotgamer/hostelixpro/internals/features/students/model"
	studentRepo "github.com/nothotgamer/hostelixpro/internals/features/students/repository"
	helper "github.com/nothotgamer/hostelixpro/internals/helpers"
	"github.com/nothotgamer/hostelixpro/internals/helpers/apperr"
)

// RoutineRepository is the Postgres-backed service.RoutineStore.
type RoutineRepository struct {
	db *gorm.DB
}

var _ service.RoutineStore = (*RoutineRepository)(nil)

func NewRoutineRepository(db *gorm.DB) *RoutineRepository {
	return &RoutineRepository{db: db}
}

func (r *RoutineRepository) Transaction(ctx context.Context, fn func(tx service.RoutineStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&RoutineRepository{db: tx})
	})
}

func (r *RoutineRepository) FindStudentByUserID(ctx context.Context, userID uuid.UUID) (*studentModel.StudentModel, error) {
	return studentRepo.FindByUserID(ctx, r.db, userID)
}

func (r *RoutineRepository) LockStudentByUserID(ctx context.Context, userID uuid.UUID) (*studentModel.StudentModel, error) {
	return studentRepo.LockByUserID(ctx, r.db, userID)
}

func (r *RoutineRepository) FindActiveRoutine(ctx context.Context, studentID uuid.UUID) (*model.RoutineModel, error) {
	var row model.RoutineModel
	err := r.db.WithContext(ctx).
		Where("routine_student_id = ? AND routine_status IN ?", studentID, model.ActiveStatuses).
		Order("routine_request_time DESC").
		Take(&row).Error
	return nilIfMissing(&row, err)
}

func (r *RoutineRepository) LockRoutine(ctx context.Context, id uuid.UUID) (*model.RoutineModel, error) {
	var row model.RoutineModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("routine_id = ?", id).
		Take(&row).Error
	return nilIfMissing(&row, err)
}

func (r *RoutineRepository) CreateRoutine(ctx context.Context, row *model.RoutineModel) error {
	return mapCreateError(r.db.WithContext(ctx).Create(row).Error)
}

func (r *RoutineRepository) SaveRoutine(ctx context.Context, row *model.RoutineModel) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// mapCreateError turns a hit on uq_routines_one_active into a Conflict.
func mapCreateError(err error) error {
	if err == nil {
		return nil
	}
	if helper.IsUniqueViolation(err) {
		return apperr.Conflict("You already have an active routine request")
	}
	return err
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
