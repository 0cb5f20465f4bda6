package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/nothotgamer/hostelixpro/internals/features/routines/model"
	studentModel "github.com/nothotgamer/hostelixpro/internals/features/students/model"
)

// RoutineStore is the record store behind the routine workflow. Find*/Lock*
// return nil, nil when nothing matches.
type RoutineStore interface {
	Transaction(ctx context.Context, fn func(tx RoutineStore) error) error

	FindStudentByUserID(ctx context.Context, userID uuid.UUID) (*studentModel.StudentModel, error)
	// LockStudentByUserID serialises creations for one student.
	LockStudentByUserID(ctx context.Context, userID uuid.UUID) (*studentModel.StudentModel, error)

	FindActiveRoutine(ctx context.Context, studentID uuid.UUID) (*model.RoutineModel, error)
	LockRoutine(ctx context.Context, id uuid.UUID) (*model.RoutineModel, error)
	// CreateRoutine fails with a Conflict when the student already has an
	// active routine.
	CreateRoutine(ctx context.Context, r *model.RoutineModel) error
	SaveRoutine(ctx context.Context, r *model.RoutineModel) error
}
