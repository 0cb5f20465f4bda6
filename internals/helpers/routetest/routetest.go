// Package routetest mounts a route group behind a fake identity so role
// gates can be exercised without issuing tokens.
package routetest

import (
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	helperAuth "github.com/nothotgamer/hostelixpro/internals/helpers/auth"
)

// RoleHeader carries the role the fake identity middleware puts in Locals.
const RoleHeader = "X-Test-Role"

// MockDB returns a gorm handle over sqlmock. With no expectations set any
// query fails, which surfaces as a 500 from the handler.
func MockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
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

// App mounts routes under /api. Requests without RoleHeader carry no role.
func App(mount func(r fiber.Router)) *fiber.App {
	app := fiber.New()
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Locals(helperAuth.LocUserID, uuid.NewString())
		if role := c.Get(RoleHeader); role != "" {
			c.Locals(helperAuth.LocRole, role)
		}
		return c.Next()
	})
	mount(api)
	return app
}

// Case is one request and the status the gate (or the handler behind it)
// should answer with.
type Case struct {
	Method string
	Path   string
	Role   string
	Want   int
}

func Run(t *testing.T, app *fiber.App, cases []Case) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.Method+" "+tc.Path+" as "+tc.Role, func(t *testing.T) {
			req := httptest.NewRequest(tc.Method, tc.Path, nil)
			if tc.Role != "" {
				req.Header.Set(RoleHeader, tc.Role)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.Want, resp.StatusCode)
		})
	}
}
