package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/nothotgamer/hostelixpro/internals/constants"
	studentModel "github.com/nothotgamer/hostelixpro/internals/features/students/model"
	userModel "github.com/nothotgamer/hostelixpro/internals/features/users/model"
	helper "github.com/nothotgamer/hostelixpro/internals/helpers"
	"github.com/nothotgamer/hostelixpro/internals/helpers/apperr"
	helperAuth "github.com/nothotgamer/hostelixpro/internals/helpers/auth"
	"github.com/nothotgamer/hostelixpro/internals/helpers/dbtime"
)

var (
	errEmailTaken     = apperr.Conflict("Email already exists")
	errAdmissionTaken = apperr.Conflict("Admission number already exists")
	errNotAdmin       = apperr.Unauthorized("Only admins manage accounts")
)

// HashFunc turns a plain password into the stored hash.
type HashFunc func(password string) (string, error)

// AccountService is admin-side user management: accounts, student
// profiles, teacher assignment and locking.
type AccountService struct {
	store AccountStore
	clock dbtime.Clock
	hash  HashFunc
}

func NewAccountService(store AccountStore, clock dbtime.Clock, hash HashFunc) *AccountService {
	if clock == nil {
		clock = dbtime.SystemClock{}
	}
	return &AccountService{store: store, clock: clock, hash: hash}
}

type StudentInput struct {
	AdmissionNo       string
	Room              *string
	AssignedTeacherID *uuid.UUID
	MonthlyFee        *decimal.Decimal
	FeeStructureID    *uuid.UUID
	GuardianName      string
	Phone             string
}

type CreateAccountInput struct {
	Email    string
	Password string
	FullName string
	Role     string
	Student  *StudentInput
}

// Account is a user with their student profile, if any.
type Account struct {
	User    userModel.UserModel        `json:"user"`
	Student *studentModel.StudentModel `json:"student,omitempty"`
}

// AccountPatch: nil fields stay untouched.
type AccountPatch struct {
	Email    *string
	FullName *string
	Role     *string
}

type StudentPatch struct {
	AdmissionNo       *string
	Room              *string
	AssignedTeacherID *uuid.UUID
	UnassignTeacher   bool
	MonthlyFee        *decimal.Decimal
	FeeStructureID    *uuid.UUID
}

func (s *AccountService) CreateAccount(ctx context.Context, actor helperAuth.Actor, in CreateAccountInput) (*Account, error) {
	if !actor.Is(constants.RoleAdmin) {
		return nil, errNotAdmin
	}
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if !constants.HasRole(role, constants.AllRoles) {
		return nil, apperr.Validation("Invalid role. Must be one of: " + strings.Join(constants.AllRoles, ", "))
	}
	switch {
	case role == constants.RoleStudent && in.Student == nil:
		return nil, apperr.Validation("Student accounts need an admission number")
	case role != constants.RoleStudent && in.Student != nil:
		return nil, apperr.Validation("Student details only apply to student accounts")
	}
	if in.Student != nil {
		in.Student.AdmissionNo = strings.TrimSpace(in.Student.AdmissionNo)
		if in.Student.AdmissionNo == "" {
			return nil, apperr.Validation("Student accounts need an admission number")
		}
		if err := checkMonthlyFee(in.Student.MonthlyFee); err != nil {
			return nil, err
		}
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	email := normaliseEmail(in.Email)
	now := s.clock.NowMs()
	out := &Account{}
	err = s.store.Transaction(ctx, func(tx AccountStore) error {
		taken, err := tx.EmailTaken(ctx, email, uuid.Nil)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if taken {
			return errEmailTaken
		}

		out.User = userModel.UserModel{
			UserID:           uuid.New(),
			UserEmail:        email,
			UserPasswordHash: hash,
			UserFullName:     strings.TrimSpace(in.FullName),
			UserRole:         role,
			UserCreatedAt:    now,
			UserUpdatedAt:    now,
		}
		if err := tx.CreateUser(ctx, &out.User); err != nil {
			return conflictOr(err, errEmailTaken, "create user")
		}
		if in.Student == nil {
			return nil
		}

		st, err := s.newStudent(ctx, tx, out.User, *in.Student, now)
		if err != nil {
			return err
		}
		out.Student = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *AccountService) newStudent(ctx context.Context, tx AccountStore, u userModel.UserModel, in StudentInput, now int64) (*studentModel.StudentModel, error) {
	taken, err := tx.AdmissionTaken(ctx, in.AdmissionNo, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("check admission no: %w", err)
	}
	if taken {
		return nil, errAdmissionTaken
	}
	if err := checkTeacher(ctx, tx, in.AssignedTeacherID); err != nil {
		return nil, err
	}

	profile, err := sonic.Marshal(studentModel.StudentProfileData{
		FullName:     u.UserFullName,
		GuardianName: strings.TrimSpace(in.GuardianName),
		Phone:        strings.TrimSpace(in.Phone),
	})
	if err != nil {
		return nil, fmt.Errorf("encode student profile: %w", err)
	}

	st := &studentModel.StudentModel{
		StudentID:                uuid.New(),
		StudentUserID:            u.UserID,
		StudentAdmissionNo:       in.AdmissionNo,
		StudentRoom:              trimmed(in.Room),
		StudentAssignedTeacherID: in.AssignedTeacherID,
		StudentMonthlyFee:        in.MonthlyFee,
		StudentFeeStructureID:    in.FeeStructureID,
		StudentProfile:           datatypes.JSON(profile),
		StudentCreatedAt:         now,
		StudentUpdatedAt:         now,
	}
	if err := tx.CreateStudent(ctx, st); err != nil {
		return nil, conflictOr(err, errAdmissionTaken, "create student")
	}
	return st, nil
}

// UpdateAccount edits name, email or role. Moving an account into or out of
// the student role is refused: student rows own fees, routines and reports.
func (s *AccountService) UpdateAccount(ctx context.Context, actor helperAuth.Actor, id uuid.UUID, p AccountPatch) (*Account, error) {
	if !actor.Is(constants.RoleAdmin) {
		return nil, errNotAdmin
	}

	out := &Account{}
	err := s.store.Transaction(ctx, func(tx AccountStore) error {
		u, err := tx.LockUser(ctx, id)
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}
		if u == nil {
			return apperr.NotFound("User not found")
		}

		if p.Email != nil {
			email := normaliseEmail(*p.Email)
			taken, err := tx.EmailTaken(ctx, email, u.UserID)
			if err != nil {
				return fmt.Errorf("check email: %w", err)
			}
			if taken {
				return errEmailTaken
			}
			u.UserEmail = email
		}
		if p.FullName != nil {
			u.UserFullName = strings.TrimSpace(*p.FullName)
		}
		if p.Role != nil {
			role := strings.ToLower(strings.TrimSpace(*p.Role))
			if err := checkRoleChange(actor, u, role); err != nil {
				return err
			}
			u.UserRole = role
		}

		u.UserUpdatedAt = s.clock.NowMs()
		if err := tx.SaveUser(ctx, u); err != nil {
			return conflictOr(err, errEmailTaken, "save user")
		}
		out.User = *u

		if u.UserRole == constants.RoleStudent {
			st, err := tx.FindStudentByUserID(ctx, u.UserID)
			if err != nil {
				return fmt.Errorf("find student: %w", err)
			}
			out.Student = st
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func checkRoleChange(actor helperAuth.Actor, u *userModel.UserModel, role string) error {
	if role == u.UserRole {
		return nil
	}
	if !constants.HasRole(role, constants.AllRoles) {
		return apperr.Validation("Invalid role. Must be one of: " + strings.Join(constants.AllRoles, ", "))
	}
	if u.UserID == actor.UserID {
		return apperr.Validation("Cannot change your own role")
	}
	if role == constants.RoleStudent || u.UserRole == constants.RoleStudent {
		return apperr.InvalidState("Role changes to or from student are not supported")
	}
	return nil
}

// SetLocked locks or unlocks an account; nil toggles. Admins cannot lock
// themselves out.
func (s *AccountService) SetLocked(ctx context.Context, actor helperAuth.Actor, id uuid.UUID, locked *bool) (*userModel.UserModel, error) {
	if !actor.Is(constants.RoleAdmin) {
		return nil, errNotAdmin
	}
	if id == actor.UserID {
		return nil, apperr.Validation("Cannot lock your own account")
	}

	var out *userModel.UserModel
	err := s.store.Transaction(ctx, func(tx AccountStore) error {
		u, err := tx.LockUser(ctx, id)
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}
		if u == nil {
			return apperr.NotFound("User not found")
		}

		next := !u.UserIsLocked
		if locked != nil {
			next = *locked
		}
		u.UserIsLocked = next
		u.UserUpdatedAt = s.clock.NowMs()
		if err := tx.SaveUser(ctx, u); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStudent edits a student profile, including the assigned teacher.
func (s *AccountService) UpdateStudent(ctx context.Context, actor helperAuth.Actor, studentID uuid.UUID, p StudentPatch) (*studentModel.StudentModel, error) {
	if !actor.Is(constants.RoleAdmin) {
		return nil, errNotAdmin
	}
	if p.UnassignTeacher && p.AssignedTeacherID != nil {
		return nil, apperr.Validation("Choose either a teacher or unassign, not both")
	}
	if err := checkMonthlyFee(p.MonthlyFee); err != nil {
		return nil, err
	}

	var out *studentModel.StudentModel
	err := s.store.Transaction(ctx, func(tx AccountStore) error {
		st, err := tx.LockStudent(ctx, studentID)
		if err != nil {
			return fmt.Errorf("lock student: %w", err)
		}
		if st == nil {
			return apperr.NotFound("Student not found")
		}

		if p.AdmissionNo != nil {
			no := strings.TrimSpace(*p.AdmissionNo)
			if no == "" {
				return apperr.Validation("Admission number cannot be empty")
			}
			taken, err := tx.AdmissionTaken(ctx, no, st.StudentID)
			if err != nil {
				return fmt.Errorf("check admission no: %w", err)
			}
			if taken {
				return errAdmissionTaken
			}
			st.StudentAdmissionNo = no
		}
		if p.Room != nil {
			st.StudentRoom = trimmed(p.Room)
		}
		switch {
		case p.UnassignTeacher:
			st.StudentAssignedTeacherID = nil
		case p.AssignedTeacherID != nil:
			if err := checkTeacher(ctx, tx, p.AssignedTeacherID); err != nil {
				return err
			}
			st.StudentAssignedTeacherID = p.AssignedTeacherID
		}
		if p.MonthlyFee != nil {
			st.StudentMonthlyFee = p.MonthlyFee
		}
		if p.FeeStructureID != nil {
			st.StudentFeeStructureID = p.FeeStructureID
		}

		st.StudentUpdatedAt = s.clock.NowMs()
		if err := tx.SaveStudent(ctx, st); err != nil {
			return conflictOr(err, errAdmissionTaken, "save student")
		}
		out = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// checkTeacher: hanya akun teacher yang aktif boleh jadi wali.
func checkTeacher(ctx context.Context, tx AccountStore, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	u, err := tx.FindUser(ctx, *id)
	if err != nil {
		return fmt.Errorf("find teacher: %w", err)
	}
	if u == nil || u.UserRole != constants.RoleTeacher || u.UserIsLocked {
		return apperr.Validation("Assigned teacher must be an active teacher account")
	}
	return nil
}

func checkMonthlyFee(fee *decimal.Decimal) error {
	if fee == nil {
		return nil
	}
	if !fee.IsPositive() || !fee.Equal(fee.Round(2)) {
		return apperr.Validation("Monthly fee must be above zero with at most two decimals")
	}
	return nil
}

// conflictOr maps a unique violation that slipped past the pre-checks
// (concurrent admin edits) onto the matching Conflict.
func conflictOr(err error, conflict error, op string) error {
	if helper.IsUniqueViolation(err) {
		return conflict
	}
	return fmt.Errorf("%s: %w", op, err)
}

func normaliseEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
