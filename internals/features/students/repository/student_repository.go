package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	studentModel "github.com/nothotgamer/hostelixpro/internals/features/students/model"
)

// FindByUserID returns nil, nil when the user has no student profile.
func FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*studentModel.StudentModel, error) {
	var s studentModel.StudentModel
	err := db.WithContext(ctx).Where("student_user_id = ?", userID).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// LockByUserID is FindByUserID with a FOR UPDATE row lock; it serialises
// creations that are unique per student.
func LockByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*studentModel.StudentModel, error) {
	return FindByUserID(ctx, db.Clauses(clause.Locking{Strength: "UPDATE"}), userID)
}

func FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*studentModel.StudentModel, error) {
	var s studentModel.StudentModel
	err := db.WithContext(ctx).Where("student_id = ?", id).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// IDsAssignedToTeacher lists the students a teacher is responsible for.
func IDsAssignedToTeacher(ctx context.Context, db *gorm.DB, teacherUserID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.WithContext(ctx).
		Model(&studentModel.StudentModel{}).
		Where("student_assigned_teacher_id = ?", teacherUserID).
		Pluck("student_id", &ids).Error
	return ids, err
}
