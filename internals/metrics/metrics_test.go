package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nothotgamer/hostelixpro/internals/helpers/apperr"
)

func TestRecordTransitionOutcomes(t *testing.T) {
	RecordTransition("routine", "approve", nil)
	RecordTransition("routine", "approve", apperr.InvalidState("Routine is not pending approval"))
	RecordTransition("routine", "approve", errors.New("db down"))

	assert.Equal(t, 1.0, testutil.ToFloat64(transitions.WithLabelValues("routine", "approve", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(transitions.WithLabelValues("routine", "approve", "invalid_state")))
	assert.Equal(t, 1.0, testutil.ToFloat64(transitions.WithLabelValues("routine", "approve", "error")))
}

func TestOverdueGauge(t *testing.T) {
	SetOverdueRoutines(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(overdueRoutines))
	SetOverdueRoutines(0)
	assert.Equal(t, 0.0, testutil.ToFloat64(overdueRoutines))
}

func TestMiddlewareAndHandler(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/api/fees/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Get("/metrics", Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/fees/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/fees/:id", "204")))

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "hostelixpro_http_requests_total")
}
