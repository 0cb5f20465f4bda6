package model

import (
	"github.com/google/uuid"
)

// UserModel merepresentasikan tabel users
type UserModel struct {
	UserID           uuid.UUID `json:"user_id" gorm:"column:user_id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserEmail        string    `json:"user_email" gorm:"column:user_email;type:varchar(150);not null"`
	UserPasswordHash string    `json:"-" gorm:"column:user_password_hash;type:text;not null"`
	UserFullName     string    `json:"user_full_name" gorm:"column:user_full_name;type:varchar(150);not null"`
	UserRole         string    `json:"user_role" gorm:"column:user_role;type:varchar(20);not null"`
	UserIsLocked     bool      `json:"user_is_locked" gorm:"column:user_is_locked;not null;default:false"`
	UserCreatedAt    int64     `json:"user_created_at" gorm:"column:user_created_at;autoCreateTime:milli"`
	UserUpdatedAt    int64     `json:"user_updated_at" gorm:"column:user_updated_at;autoUpdateTime:milli"`
}

func (UserModel) TableName() string {
	return "users"
}
