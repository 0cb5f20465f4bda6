package controller

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nothotgamer/hostelixpro/internals/constants"
	helperAuth "github.com/nothotgamer/hostelixpro/internals/helpers/auth"
)

const (
	clearDefaultSQL = `UPDATE "fee_structures" SET "fee_structure_is_default"=.* WHERE fee_structure_is_default = .* AND fee_structure_id <> `
	saveSQL         = `UPDATE "fee_structures" SET .*"fee_structure_name"=.* WHERE "fee_structure_id" = `
	takeSQL         = `SELECT \* FROM "fee_structures" WHERE fee_structure_id = .* LIMIT`
)

func newStructureApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	ctl := NewFeeController(gdb, nil, time.UTC, nil, zap.NewNop())
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(helperAuth.LocUserID, uuid.NewString())
		c.Locals(helperAuth.LocRole, constants.RoleAdmin)
		return c.Next()
	})
	app.Post("/structures", ctl.CreateStructure)
	app.Put("/structures/:id", ctl.UpdateStructure)
	return app, mock
}

type structureBody struct {
	Data struct {
		ID        uuid.UUID `json:"fee_structure_id"`
		IsDefault bool      `json:"fee_structure_is_default"`
		IsActive  bool      `json:"fee_structure_is_active"`
	} `json:"data"`
}

func send(t *testing.T, app *fiber.App, method, path, body string) (int, structureBody) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, _ := io.ReadAll(resp.Body)
	var out structureBody
	_ = sonic.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func structureRow(id uuid.UUID, isDefault, isActive bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"fee_structure_id", "fee_structure_name", "fee_structure_monthly_amount",
		"fee_structure_late_fee_per_day", "fee_structure_due_day",
		"fee_structure_is_default", "fee_structure_is_active",
	}).AddRow(id.String(), "Reguler", "1500000.00", "5000.00", 10, isDefault, isActive)
}

func TestCreateDefaultStructureClearsPreviousDefault(t *testing.T) {
	app, mock := newStructureApp(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(clearDefaultSQL).
		WithArgs(false, sqlmock.AnyArg(), true, uuid.Nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "fee_structures"`).
		WillReturnRows(sqlmock.NewRows([]string{"fee_structure_id"}).AddRow(id.String()))
	mock.ExpectCommit()

	status, body := send(t, app, "POST", "/structures",
		`{"name":"Reguler","monthly_amount":"1500000","is_default":true}`)

	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, id, body.Data.ID)
	assert.True(t, body.Data.IsDefault)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePlainStructureLeavesDefaultAlone(t *testing.T) {
	app, mock := newStructureApp(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "fee_structures"`).
		WillReturnRows(sqlmock.NewRows([]string{"fee_structure_id"}).AddRow(uuid.NewString()))
	mock.ExpectCommit()

	status, body := send(t, app, "POST", "/structures",
		`{"name":"Beasiswa","monthly_amount":"750000"}`)

	assert.Equal(t, fiber.StatusCreated, status)
	assert.False(t, body.Data.IsDefault)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStructureRejectsBadAmounts(t *testing.T) {
	app, mock := newStructureApp(t)

	status, _ := send(t, app, "POST", "/structures", `{"name":"Reguler","monthly_amount":"0"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = send(t, app, "POST", "/structures", `{"name":"Reguler","monthly_amount":"100.505"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStructureDefaultMustBeActive(t *testing.T) {
	app, mock := newStructureApp(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(takeSQL).WillReturnRows(structureRow(id, false, true))
	// no clearDefault: an inactive structure never becomes the default
	mock.ExpectExec(saveSQL).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	status, body := send(t, app, "PUT", "/structures/"+id.String(),
		`{"is_default":true,"is_active":false}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.False(t, body.Data.IsDefault)
	assert.False(t, body.Data.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStructureBecomesDefault(t *testing.T) {
	app, mock := newStructureApp(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(takeSQL).WillReturnRows(structureRow(id, false, true))
	mock.ExpectExec(clearDefaultSQL).
		WithArgs(false, sqlmock.AnyArg(), true, id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(saveSQL).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	status, body := send(t, app, "PUT", "/structures/"+id.String(), `{"is_default":true}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, body.Data.IsDefault)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStructureDeactivatingDropsDefault(t *testing.T) {
	app, mock := newStructureApp(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(takeSQL).WillReturnRows(structureRow(id, true, true))
	mock.ExpectExec(saveSQL).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	status, body := send(t, app, "PUT", "/structures/"+id.String(), `{"is_active":false}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.False(t, body.Data.IsDefault)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStructureErrors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		app, mock := newStructureApp(t)
		mock.ExpectBegin()
		mock.ExpectQuery(takeSQL).WillReturnRows(sqlmock.NewRows([]string{"fee_structure_id"}))
		mock.ExpectRollback()

		status, _ := send(t, app, "PUT", "/structures/"+uuid.NewString(), `{"is_default":true}`)
		assert.Equal(t, fiber.StatusNotFound, status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative amount", func(t *testing.T) {
		app, mock := newStructureApp(t)
		id := uuid.New()
		mock.ExpectBegin()
		mock.ExpectQuery(takeSQL).WillReturnRows(structureRow(id, false, true))
		mock.ExpectRollback()

		status, _ := send(t, app, "PUT", "/structures/"+id.String(), `{"late_fee_per_day":"-1"}`)
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("bad id", func(t *testing.T) {
		app, mock := newStructureApp(t)
		status, _ := send(t, app, "PUT", "/structures/nope", `{}`)
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
