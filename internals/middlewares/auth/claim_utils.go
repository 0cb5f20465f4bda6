package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

/* ======== Extractors ======== */

func extractBearerToken(c *fiber.Ctx, allowCookie bool) (string, error) {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if auth == "" && allowCookie {
		if cookieTok := strings.TrimSpace(c.Cookies("access_token")); cookieTok != "" {
			auth = "Bearer " + cookieTok
		}
	}
	if auth == "" {
		return "", errors.New("no token provided")
	}

	// toleransi spasi ganda & case-insensitive
	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", errors.New("invalid token format")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", errors.New("empty token")
	}
	return tok, nil
}

// validateTokenExpiry accepts exp as a JSON number or numeric string.
func validateTokenExpiry(claims jwt.MapClaims, now time.Time, skew time.Duration) error {
	expVal, ok := claims["exp"]
	if !ok {
		return errors.New("token has no exp")
	}

	var expUnix int64
	switch t := expVal.(type) {
	case float64:
		expUnix = int64(t)
	case int64:
		expUnix = t
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return errors.New("invalid exp format")
		}
		expUnix = n
	default:
		return errors.New("invalid exp type")
	}

	expTime := time.Unix(expUnix, 0).UTC()
	if now.UTC().After(expTime.Add(skew)) {
		return fmt.Errorf("token expired at %v", expTime)
	}
	return nil
}

// extractUserID: ambil id/sub/user_id dalam urutan preferensi.
func extractUserID(claims jwt.MapClaims) (uuid.UUID, error) {
	for _, key := range []string{"id", "sub", "user_id"} {
		if s := strClaim(claims, key); s != "" {
			return uuid.Parse(s)
		}
	}
	return uuid.Nil, errors.New("no user id")
}

func extractRole(claims jwt.MapClaims) string {
	return strings.ToLower(strClaim(claims, "role"))
}

func strClaim(m jwt.MapClaims, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
