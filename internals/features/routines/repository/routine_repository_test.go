package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nothotgamer/hostelixpro/internals/features/routines/model"
	"github.com/nothotgamer/hostelixpro/internals/features/routines/service"
	"github.com/nothotgamer/hostelixpro/internals/helpers/apperr"
)

func newMockRepo(t *testing.T) (*RoutineRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewRoutineRepository(gdb), mock
}

func TestLockRoutineUsesRowLock(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "routines" WHERE routine_id = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"routine_id", "routine_type", "routine_status", "routine_companions"}).
			AddRow(id.String(), "exit", "APPROVED_PENDING_RETURN", "{Bilal,Umar}"))

	r, err := repo.LockRoutine(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, model.RoutineExit, r.RoutineType)
	assert.Equal(t, model.RoutineApprovedPendingReturn, r.RoutineStatus)
	assert.Equal(t, []string{"Bilal", "Umar"}, []string(r.RoutineCompanions))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindActiveRoutineFiltersActiveStatuses(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "routines" WHERE routine_student_id = .* AND routine_status IN \(.*,.*,.*\) ORDER BY routine_request_time DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"routine_id"}))

	r, err := repo.FindActiveRoutine(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, r)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRollsBackOnError(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := repo.Transaction(context.Background(), func(tx service.RoutineStore) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMapCreateError(t *testing.T) {
	assert.NoError(t, mapCreateError(nil))

	err := mapCreateError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_routines_one_active"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	err = mapCreateError(gorm.ErrDuplicatedKey)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	other := errors.New("connection reset")
	assert.Same(t, other, mapCreateError(other))
}

func TestCountOverdue(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "routines" WHERE routine_status = .* AND routine_expected_return_time IS NOT NULL AND routine_expected_return_time < `).
		WithArgs("APPROVED_PENDING_RETURN", int64(1_700_000_000_000)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := CountOverdue(context.Background(), repo.db, 1_700_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRoutinesJoinsStudentName(t *testing.T) {
	repo, mock := newMockRepo(t)
	sid := uuid.New()

	mock.ExpectQuery(`SELECT routines.\*, users.user_full_name AS student_name, students.student_admission_no FROM "routines" JOIN students .* JOIN users .* WHERE routines.routine_student_id = .* ORDER BY routines.routine_request_time DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"routine_id", "routine_student_id", "routine_type", "routine_status", "student_name", "student_admission_no"}).
			AddRow(uuid.NewString(), sid.String(), "walk", "COMPLETED", "Ali Raza", "A-7"))

	rows, err := ListRoutines(context.Background(), repo.db, ListFilter{StudentID: &sid, Limit: 50})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ali Raza", rows[0].StudentName)
	assert.Equal(t, model.RoutineWalk, rows[0].RoutineType)
	assert.Equal(t, sid, rows[0].RoutineStudentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
