package service

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	studentModel "github.com/nothotgamer/hostelixpro/internals/features/students/model"
	userModel "github.com/nothotgamer/hostelixpro/internals/features/users/model"
)

// memAccounts is an in-memory AccountStore with the same unique rules as the
// schema (email case-insensitive, admission number). Failed units of work
// are rolled back from a snapshot.
type memAccounts struct {
	mu       sync.Mutex
	users    map[uuid.UUID]userModel.UserModel
	students map[uuid.UUID]studentModel.StudentModel // keyed by student id

	// hidePrechecks makes *Taken report false so the unique index has to
	// catch the duplicate.
	hidePrechecks bool
}

func newMemAccounts() *memAccounts {
	return &memAccounts{
		users:    map[uuid.UUID]userModel.UserModel{},
		students: map[uuid.UUID]studentModel.StudentModel{},
	}
}

var errUnique = &pgconn.PgError{Code: "23505"}

func (m *memAccounts) Transaction(_ context.Context, fn func(tx AccountStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make(map[uuid.UUID]userModel.UserModel, len(m.users))
	for k, v := range m.users {
		users[k] = v
	}
	students := make(map[uuid.UUID]studentModel.StudentModel, len(m.students))
	for k, v := range m.students {
		students[k] = v
	}
	if err := fn(m); err != nil {
		m.users, m.students = users, students
		return err
	}
	return nil
}

func (m *memAccounts) FindUser(_ context.Context, id uuid.UUID) (*userModel.UserModel, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memAccounts) LockUser(ctx context.Context, id uuid.UUID) (*userModel.UserModel, error) {
	return m.FindUser(ctx, id)
}

func (m *memAccounts) emailUsed(email string, except uuid.UUID) bool {
	for _, u := range m.users {
		if u.UserID != except && strings.EqualFold(u.UserEmail, email) {
			return true
		}
	}
	return false
}

func (m *memAccounts) EmailTaken(_ context.Context, email string, except uuid.UUID) (bool, error) {
	if m.hidePrechecks {
		return false, nil
	}
	return m.emailUsed(email, except), nil
}

func (m *memAccounts) CreateUser(_ context.Context, u *userModel.UserModel) error {
	if m.emailUsed(u.UserEmail, u.UserID) {
		return errUnique
	}
	m.users[u.UserID] = *u
	return nil
}

func (m *memAccounts) SaveUser(_ context.Context, u *userModel.UserModel) error {
	if m.emailUsed(u.UserEmail, u.UserID) {
		return errUnique
	}
	m.users[u.UserID] = *u
	return nil
}

func (m *memAccounts) admissionUsed(no string, except uuid.UUID) bool {
	for _, s := range m.students {
		if s.StudentID != except && s.StudentAdmissionNo == no {
			return true
		}
	}
	return false
}

func (m *memAccounts) AdmissionTaken(_ context.Context, no string, except uuid.UUID) (bool, error) {
	if m.hidePrechecks {
		return false, nil
	}
	return m.admissionUsed(no, except), nil
}

func (m *memAccounts) FindStudentByUserID(_ context.Context, userID uuid.UUID) (*studentModel.StudentModel, error) {
	for _, s := range m.students {
		if s.StudentUserID == userID {
			s := s
			return &s, nil
		}
	}
	return nil, nil
}

func (m *memAccounts) LockStudent(_ context.Context, id uuid.UUID) (*studentModel.StudentModel, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memAccounts) CreateStudent(_ context.Context, s *studentModel.StudentModel) error {
	if m.admissionUsed(s.StudentAdmissionNo, s.StudentID) {
		return errUnique
	}
	m.students[s.StudentID] = *s
	return nil
}

func (m *memAccounts) SaveStudent(_ context.Context, s *studentModel.StudentModel) error {
	if m.admissionUsed(s.StudentAdmissionNo, s.StudentID) {
		return errUnique
	}
	m.students[s.StudentID] = *s
	return nil
}

func (m *memAccounts) addUser(role string) userModel.UserModel {
	u := userModel.UserModel{
		UserID:       uuid.New(),
		UserEmail:    role + "-" + uuid.NewString()[:6] + "@hostel.test",
		UserFullName: strings.ToUpper(role[:1]) + role[1:],
		UserRole:     role,
	}
	m.users[u.UserID] = u
	return u
}
