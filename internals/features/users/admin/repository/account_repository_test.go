package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gdb, mock
}

func TestLockStudentUsesRowLock(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "students" WHERE student_id = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "student_admission_no"}).
			AddRow(id.String(), "HX-0001"))

	st, err := repo.LockStudent(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, "HX-0001", st.StudentAdmissionNo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockUserMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE user_id = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	u, err := repo.LockUser(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailTakenIgnoresCaseAndSelf(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)
	self := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE LOWER\(user_email\) = \$1 AND user_id <> \$2`).
		WithArgs("rina@hostel.test", self).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	taken, err := repo.EmailTaken(context.Background(), " Rina@Hostel.TEST", self)
	require.NoError(t, err)
	assert.True(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}
