package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerMiddlewareLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	app := fiber.New()
	app.Use(RequestID(), LoggerMiddleware(zap.New(core)))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/missing", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusNotFound, "nope") })
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.ErrInternalServerError })

	for _, p := range []string{"/ok", "/missing", "/boom"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, p, nil))
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, int64(404), entries[1].ContextMap()["status"])
}

func TestRequestIDPassthrough(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocRequestID).(string))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(HeaderRequestID))
}
