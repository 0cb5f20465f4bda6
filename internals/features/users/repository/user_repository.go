// internals/features/users/repository/user_repository.go
package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "github.com/nothotgamer/hostelixpro/internals/features/users/model"
)

var ErrUserLocked = errors.New("user locked")

func FindUserByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).First(&user, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).
		Where("LOWER(user_email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func CreateUser(ctx context.Context, db *gorm.DB, user *userModel.UserModel) error {
	return db.WithContext(ctx).Create(user).Error
}

// ActiveUserRole returns the stored role of an unlocked user. Unknown users
// yield gorm.ErrRecordNotFound, locked ones ErrUserLocked.
func ActiveUserRole(ctx context.Context, db *gorm.DB, userID uuid.UUID) (string, error) {
	var row struct {
		UserRole     string
		UserIsLocked bool
	}
	if err := db.WithContext(ctx).
		Table("users").
		Select("user_role, user_is_locked").
		Where("user_id = ?", userID).
		Take(&row).Error; err != nil {
		return "", err
	}
	if row.UserIsLocked {
		return "", ErrUserLocked
	}
	return row.UserRole, nil
}
