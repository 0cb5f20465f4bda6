package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	helperAuth "github.com/nothotgamer/hostelixpro/internals/helpers/auth"
)

// ErrAccountLocked is what ActiveChecker returns for a locked account.
var ErrAccountLocked = errors.New("account locked")

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool // pakai cookie access_token jika tidak ada Bearer
	// ActiveChecker (opsional) menolak user yang sudah dikunci / dihapus dan
	// mengembalikan role terkini dari DB; role non-kosong menimpa claim.
	ActiveChecker func(ctx context.Context, userID uuid.UUID) (string, error)
	Log           *zap.Logger
	Now           func() time.Time
}

// AuthJWT verifies an HS256 token and places user id and role in Locals.
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret wajib diisi")
	}
	log := o.Log
	if log == nil {
		log = zap.NewNop()
	}
	now := o.Now
	if now == nil {
		now = time.Now
	}

	return func(c *fiber.Ctx) error {
		raw, err := extractBearerToken(c, o.AllowCookieFallback)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - "+err.Error())
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true}
		if _, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		}); err != nil {
			log.Debug("token parse failed", zap.Error(err))
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - invalid token")
		}

		if err := validateTokenExpiry(claims, now(), 30*time.Second); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - token expired")
		}

		userID, err := extractUserID(claims)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - invalid or missing user id")
		}
		role := extractRole(claims)
		if role == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - missing role")
		}

		if o.ActiveChecker != nil {
			current, err := o.ActiveChecker(c.UserContext(), userID)
			if err != nil {
				if errors.Is(err, ErrAccountLocked) {
					return fiber.NewError(fiber.StatusForbidden, "Account is locked")
				}
				log.Warn("active check failed", zap.String("user_id", userID.String()), zap.Error(err))
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - user not found")
			}
			if current = strings.ToLower(strings.TrimSpace(current)); current != "" {
				role = current
			}
		}

		c.Locals("jwt_claims", claims)
		c.Locals(helperAuth.LocUserID, userID.String())
		c.Locals(helperAuth.LocRole, role)
		return c.Next()
	}
}
