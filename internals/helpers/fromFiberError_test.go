package helper

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/nothotgamer/hostelixpro/internals/helpers/apperr"
)

func TestStatusForKind(t *testing.T) {
	cases := []struct {
		kind apperr.Kind
		want int
	}{
		{apperr.KindNotFound, fiber.StatusNotFound},
		{apperr.KindInvalidState, fiber.StatusConflict},
		{apperr.KindConflict, fiber.StatusConflict},
		{apperr.KindAlreadyApproved, fiber.StatusConflict},
		{apperr.KindAlreadyRejected, fiber.StatusConflict},
		{apperr.KindAlreadySettled, fiber.StatusConflict},
		{apperr.KindLimitExceeded, fiber.StatusUnprocessableEntity},
		{apperr.KindUnauthorized, fiber.StatusForbidden},
		{apperr.KindValidation, fiber.StatusBadRequest},
		{"", fiber.StatusInternalServerError},
		{"SOMETHING_NEW", fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			assert.Equal(t, tc.want, StatusForKind(tc.kind))
		})
	}
}

// respond runs FromServiceError inside a real handler and decodes the body.
func respond(t *testing.T, log *zap.Logger, err error) (int, ErrorResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error { return FromServiceError(c, log, err) })

	resp, e := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, e)
	body, _ := io.ReadAll(resp.Body)

	var out ErrorResponse
	require.NoError(t, sonic.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func TestFromServiceError(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		status   int
		code     string
		message  string
		logsSeen int
	}{
		{"domain kind", apperr.Conflict("You already have a pending payment for this fee"),
			fiber.StatusConflict, "CONFLICT", "You already have a pending payment for this fee", 0},
		{"wrapped domain kind", fmt.Errorf("approve: %w", apperr.AlreadySettled("Fee already settled")),
			fiber.StatusConflict, "ALREADY_SETTLED", "approve: Fee already settled", 0},
		{"limit exceeded", apperr.New(apperr.KindLimitExceeded, "Amount exceeds remaining balance"),
			fiber.StatusUnprocessableEntity, "LIMIT_EXCEEDED", "Amount exceeds remaining balance", 0},
		{"fiber error keeps its code", fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - missing role"),
			fiber.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized - missing role", 0},
		{"infrastructure failure is masked", errors.New("pq: connection refused"),
			fiber.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.ErrorLevel)
			status, body := respond(t, zap.New(core), tc.err)

			assert.Equal(t, tc.status, status)
			assert.False(t, body.Success)
			assert.Equal(t, tc.code, body.ErrorCode)
			assert.Equal(t, tc.message, body.Message)
			assert.Equal(t, tc.logsSeen, logs.Len())
		})
	}
}

func TestFromServiceErrorNilLogger(t *testing.T) {
	status, body := respond(t, nil, errors.New("boom"))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", body.Message)
}
