package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nothotgamer/hostelixpro/internals/constants"
	helperAuth "github.com/nothotgamer/hostelixpro/internals/helpers/auth"
)

const testSecret = "test-secret"

func sign(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func newApp(opts AuthJWTOpts, guards ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := append([]fiber.Handler{AuthJWT(opts)}, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		actor, err := helperAuth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		return c.SendString(actor.UserID.String() + "|" + actor.Role)
	})
	app.Get("/me", handlers...)
	return app
}

func do(t *testing.T, app *fiber.App, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func validClaims(id uuid.UUID, role string) jwt.MapClaims {
	return jwt.MapClaims{
		"id":   id.String(),
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
}

func TestAuthJWTStoresActor(t *testing.T) {
	id := uuid.New()
	app := newApp(AuthJWTOpts{Secret: testSecret})

	code, body := do(t, app, sign(t, validClaims(id, "Student"), testSecret))
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, id.String()+"|student", body)
}

func TestAuthJWTAcceptsSubClaim(t *testing.T) {
	id := uuid.New()
	app := newApp(AuthJWTOpts{Secret: testSecret})

	claims := jwt.MapClaims{"sub": id.String(), "role": "admin", "exp": time.Now().Add(time.Hour).Unix()}
	code, body := do(t, app, sign(t, claims, testSecret))
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, id.String()+"|admin", body)
}

func TestAuthJWTRejects(t *testing.T) {
	id := uuid.New()
	app := newApp(AuthJWTOpts{Secret: testSecret})

	cases := map[string]string{
		"missing":      "",
		"wrong secret": sign(t, validClaims(id, "admin"), "other"),
		"expired": sign(t, jwt.MapClaims{
			"id": id.String(), "role": "admin", "exp": time.Now().Add(-time.Hour).Unix(),
		}, testSecret),
		"no role": sign(t, jwt.MapClaims{"id": id.String(), "exp": time.Now().Add(time.Hour).Unix()}, testSecret),
		"bad id":  sign(t, jwt.MapClaims{"id": "nope", "role": "admin", "exp": time.Now().Add(time.Hour).Unix()}, testSecret),
		"no exp":  sign(t, jwt.MapClaims{"id": id.String(), "role": "admin"}, testSecret),
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			code, _ := do(t, app, tok)
			assert.Equal(t, fiber.StatusUnauthorized, code)
		})
	}
}

func TestAuthJWTCookieFallback(t *testing.T) {
	id := uuid.New()
	tok := sign(t, validClaims(id, "teacher"), testSecret)

	withCookie := func(app *fiber.App) int {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: tok})
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, withCookie(newApp(AuthJWTOpts{Secret: testSecret, AllowCookieFallback: true})))
	assert.Equal(t, fiber.StatusUnauthorized, withCookie(newApp(AuthJWTOpts{Secret: testSecret})))
}

func TestAuthJWTActiveChecker(t *testing.T) {
	id := uuid.New()
	tok := sign(t, validClaims(id, "student"), testSecret)

	locked := newApp(AuthJWTOpts{
		Secret: testSecret,
		ActiveChecker: func(_ context.Context, got uuid.UUID) (string, error) {
			assert.Equal(t, id, got)
			return "", ErrAccountLocked
		},
	})
	code, _ := do(t, locked, tok)
	assert.Equal(t, fiber.StatusForbidden, code)

	missing := newApp(AuthJWTOpts{
		Secret:        testSecret,
		ActiveChecker: func(context.Context, uuid.UUID) (string, error) { return "", errors.New("record not found") },
	})
	code, _ = do(t, missing, tok)
	assert.Equal(t, fiber.StatusUnauthorized, code)
}

func TestAuthJWTRoleFollowsDatabase(t *testing.T) {
	id := uuid.New()
	tok := sign(t, validClaims(id, "admin"), testSecret)

	demoted := newApp(AuthJWTOpts{
		Secret:        testSecret,
		ActiveChecker: func(context.Context, uuid.UUID) (string, error) { return "Teacher", nil },
	}, OnlyRoles(constants.RoleErrorAdmin("approve fees"), constants.AdminOnly...))
	code, _ := do(t, demoted, tok)
	assert.Equal(t, fiber.StatusForbidden, code)

	plain := newApp(AuthJWTOpts{
		Secret:        testSecret,
		ActiveChecker: func(context.Context, uuid.UUID) (string, error) { return "teacher", nil },
	})
	code, body := do(t, plain, tok)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, id.String()+"|teacher", body)

	// checker tanpa role: claim tetap dipakai
	keep := newApp(AuthJWTOpts{
		Secret:        testSecret,
		ActiveChecker: func(context.Context, uuid.UUID) (string, error) { return "", nil },
	})
	code, body = do(t, keep, tok)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, id.String()+"|admin", body)
}

func TestOnlyRoles(t *testing.T) {
	id := uuid.New()
	app := newApp(AuthJWTOpts{Secret: testSecret},
		OnlyRoles(constants.RoleErrorAdmin("approve fees"), constants.AdminOnly...))

	code, _ := do(t, app, sign(t, validClaims(id, "admin"), testSecret))
	assert.Equal(t, fiber.StatusOK, code)

	code, body := do(t, app, sign(t, validClaims(id, "student"), testSecret))
	assert.Equal(t, fiber.StatusForbidden, code)
	assert.Contains(t, body, "approve fees")
}

func TestValidateTokenExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	assert.NoError(t, validateTokenExpiry(jwt.MapClaims{"exp": float64(now.Unix() + 10)}, now, 0))
	assert.NoError(t, validateTokenExpiry(jwt.MapClaims{"exp": "1700000020"}, now, 0))
	// dalam toleransi skew
	assert.NoError(t, validateTokenExpiry(jwt.MapClaims{"exp": float64(now.Unix() - 5)}, now, 30*time.Second))
	assert.Error(t, validateTokenExpiry(jwt.MapClaims{"exp": float64(now.Unix() - 60)}, now, 30*time.Second))
	assert.Error(t, validateTokenExpiry(jwt.MapClaims{"exp": true}, now, 0))
}
