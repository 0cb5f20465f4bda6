package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	studentModel "github.com/nothotgamer/hostelixpro/internals/features/students/model"
	studentRepo "github.com/nothotgamer/hostelixpro/internals/features/students/repository"
	"github.com/nothotgamer/hostelixpro/internals/features/users/admin/service"
	userModel "github.com/nothotgamer/hostelixpro/internals/features/users/model"
	userRepo "github.com/nothotgamer/hostelixpro/internals/features/users/repository"
)

// AccountRepository is the Postgres-backed service.AccountStore.
type AccountRepository struct {
	db *gorm.DB
}

var _ service.AccountStore = (*AccountRepository)(nil)

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Transaction(ctx context.Context, fn func(tx service.AccountStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AccountRepository{db: tx})
	})
}

func (r *AccountRepository) FindUser(ctx context.Context, id uuid.UUID) (*userModel.UserModel, error) {
	return missingIsNil(userRepo.FindUserByID(ctx, r.db, id))
}

func (r *AccountRepository) LockUser(ctx context.Context, id uuid.UUID) (*userModel.UserModel, error) {
	return missingIsNil(userRepo.FindUserByID(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id))
}

func (r *AccountRepository) EmailTaken(ctx context.Context, email string, except uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&userModel.UserModel{}).
		Where("LOWER(user_email) = ? AND user_id <> ?", strings.ToLower(strings.TrimSpace(email)), except).
		Count(&n).Error
	return n > 0, err
}

func (r *AccountRepository) CreateUser(ctx context.Context, u *userModel.UserModel) error {
	return userRepo.CreateUser(ctx, r.db, u)
}

func (r *AccountRepository) SaveUser(ctx context.Context, u *userModel.UserModel) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *AccountRepository) AdmissionTaken(ctx context.Context, admissionNo string, except uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&studentModel.StudentModel{}).
		Where("student_admission_no = ? AND student_id <> ?", admissionNo, except).
		Count(&n).Error
	return n > 0, err
}

func (r *AccountRepository) FindStudentByUserID(ctx context.Context, userID uuid.UUID) (*studentModel.StudentModel, error) {
	return studentRepo.FindByUserID(ctx, r.db, userID)
}

func (r *AccountRepository) LockStudent(ctx context.Context, studentID uuid.UUID) (*studentModel.StudentModel, error) {
	return studentRepo.FindByID(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), studentID)
}

func (r *AccountRepository) CreateStudent(ctx context.Context, s *studentModel.StudentModel) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *AccountRepository) SaveStudent(ctx context.Context, s *studentModel.StudentModel) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func missingIsNil[T any](v *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
