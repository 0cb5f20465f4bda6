package service

import (
	"context"

	"github.com/google/uuid"

	studentModel "github.com/nothotgamer/hostelixpro/internals/features/students/model"
	userModel "github.com/nothotgamer/hostelixpro/internals/features/users/model"
)

// AccountStore is the record store behind user administration. Find*/Lock*
// return nil, nil when nothing matches. Create/Save return unique violations
// as-is; the service turns them into Conflicts.
type AccountStore interface {
	Transaction(ctx context.Context, fn func(tx AccountStore) error) error

	FindUser(ctx context.Context, id uuid.UUID) (*userModel.UserModel, error)
	LockUser(ctx context.Context, id uuid.UUID) (*userModel.UserModel, error)
	// EmailTaken ignores case; except excludes the user being edited.
	EmailTaken(ctx context.Context, email string, except uuid.UUID) (bool, error)
	CreateUser(ctx context.Context, u *userModel.UserModel) error
	SaveUser(ctx context.Context, u *userModel.UserModel) error

	AdmissionTaken(ctx context.Context, admissionNo string, except uuid.UUID) (bool, error)
	FindStudentByUserID(ctx context.Context, userID uuid.UUID) (*studentModel.StudentModel, error)
	LockStudent(ctx context.Context, studentID uuid.UUID) (*studentModel.StudentModel, error)
	CreateStudent(ctx context.Context, s *studentModel.StudentModel) error
	SaveStudent(ctx context.Context, s *studentModel.StudentModel) error
}
