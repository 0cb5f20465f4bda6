package seeds

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nothotgamer/hostelixpro/internals/constants"
	feeModel "github.com/nothotgamer/hostelixpro/internals/features/fees/model"
	studentModel "github.com/nothotgamer/hostelixpro/internals/features/students/model"
	authService "github.com/nothotgamer/hostelixpro/internals/features/users/auth/service"
	userModel "github.com/nothotgamer/hostelixpro/internals/features/users/model"
	userRepo "github.com/nothotgamer/hostelixpro/internals/features/users/repository"
)

//go:embed seed_data.json
var seedData []byte

type seedFile struct {
	FeeStructures []feeStructureSeed `json:"fee_structures"`
	Users         []userSeed         `json:"users"`
}

type feeStructureSeed struct {
	Name          string          `json:"name"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount"`
	LateFeePerDay decimal.Decimal `json:"late_fee_per_day"`
	DueDay        int             `json:"due_day"`
	IsDefault     bool            `json:"is_default"`
	Description   string          `json:"description"`
}

type userSeed struct {
	Email    string       `json:"email"`
	FullName string       `json:"full_name"`
	Role     string       `json:"role"`
	Student  *studentSeed `json:"student"`
}

type studentSeed struct {
	AdmissionNo          string           `json:"admission_no"`
	Room                 string           `json:"room"`
	MonthlyFee           *decimal.Decimal `json:"monthly_fee"`
	AssignedTeacherEmail string           `json:"assigned_teacher_email"`
}

// RunAllSeeds inserts the demo accounts and the default fee structure.
// Existing rows (by email / structure name) are left untouched.
func RunAllSeeds(ctx context.Context, db *gorm.DB, password string, log *zap.Logger) error {
	var data seedFile
	if err := sonic.Unmarshal(seedData, &data); err != nil {
		return fmt.Errorf("decode seed data: %w", err)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := seedFeeStructures(ctx, tx, data.FeeStructures, log); err != nil {
			return err
		}
		return seedUsers(ctx, tx, data.Users, password, log)
	})
}

func seedFeeStructures(ctx context.Context, db *gorm.DB, rows []feeStructureSeed, log *zap.Logger) error {
	for _, s := range rows {
		var n int64
		if err := db.WithContext(ctx).Model(&feeModel.FeeStructureModel{}).
			Where("fee_structure_name = ?", s.Name).Count(&n).Error; err != nil {
			return fmt.Errorf("check fee structure %q: %w", s.Name, err)
		}
		if n > 0 {
			log.Info("fee structure exists, skipped", zap.String("name", s.Name))
			continue
		}

		st := feeModel.FeeStructureModel{
			FeeStructureID:            uuid.New(),
			FeeStructureName:          s.Name,
			FeeStructureMonthlyAmount: s.MonthlyAmount,
			FeeStructureLateFeePerDay: s.LateFeePerDay,
			FeeStructureDueDay:        s.DueDay,
			FeeStructureIsDefault:     s.IsDefault,
			FeeStructureIsActive:      true,
		}
		if d := strings.TrimSpace(s.Description); d != "" {
			st.FeeStructureDescription = &d
		}
		if err := db.WithContext(ctx).Create(&st).Error; err != nil {
			return fmt.Errorf("create fee structure %q: %w", s.Name, err)
		}
		log.Info("fee structure seeded", zap.String("name", s.Name))
	}
	return nil
}

func seedUsers(ctx context.Context, db *gorm.DB, rows []userSeed, password string, log *zap.Logger) error {
	hash, err := authService.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	// staff dulu supaya assigned_teacher_email bisa di-resolve
	ordered := make([]userSeed, 0, len(rows))
	for _, u := range rows {
		if u.Role != constants.RoleStudent {
			ordered = append(ordered, u)
		}
	}
	for _, u := range rows {
		if u.Role == constants.RoleStudent {
			ordered = append(ordered, u)
		}
	}

	for _, u := range ordered {
		if !constants.HasRole(u.Role, constants.AllRoles) {
			return fmt.Errorf("seed user %s: unknown role %q", u.Email, u.Role)
		}

		existing, err := userRepo.FindUserByEmail(ctx, db, u.Email)
		if err == nil && existing != nil {
			log.Info("user exists, skipped", zap.String("email", u.Email))
			continue
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("lookup user %s: %w", u.Email, err)
		}

		user := userModel.UserModel{
			UserID:           uuid.New(),
			UserEmail:        strings.ToLower(u.Email),
			UserPasswordHash: hash,
			UserFullName:     u.FullName,
			UserRole:         u.Role,
		}
		if err := userRepo.CreateUser(ctx, db, &user); err != nil {
			return fmt.Errorf("create user %s: %w", u.Email, err)
		}

		if u.Student != nil {
			if err := seedStudent(ctx, db, user.UserID, *u.Student); err != nil {
				return err
			}
		}
		log.Info("user seeded", zap.String("email", user.UserEmail), zap.String("role", user.UserRole))
	}
	return nil
}

func seedStudent(ctx context.Context, db *gorm.DB, userID uuid.UUID, s studentSeed) error {
	st := studentModel.StudentModel{
		StudentID:          uuid.New(),
		StudentUserID:      userID,
		StudentAdmissionNo: s.AdmissionNo,
		StudentMonthlyFee:  s.MonthlyFee,
		StudentProfile:     []byte(`{}`),
	}
	if s.Room != "" {
		room := s.Room
		st.StudentRoom = &room
	}
	if s.AssignedTeacherEmail != "" {
		teacher, err := userRepo.FindUserByEmail(ctx, db, s.AssignedTeacherEmail)
		if err != nil {
			return fmt.Errorf("resolve teacher %s: %w", s.AssignedTeacherEmail, err)
		}
		st.StudentAssignedTeacherID = &teacher.UserID
	}
	if err := db.WithContext(ctx).Create(&st).Error; err != nil {
		return fmt.Errorf("create student %s: %w", s.AdmissionNo, err)
	}
	return nil
}
