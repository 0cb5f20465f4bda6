package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/nothotgamer/hostelixpro/internals/constants"
	helperAuth "github.com/nothotgamer/hostelixpro/internals/helpers/auth"
)

// RoleMiddlewareWithCustomError validasi role + custom error message
func RoleMiddlewareWithCustomError(allowedRoles []string, customForbiddenMessage string) fiber.Handler {
	if customForbiddenMessage == "" {
		customForbiddenMessage = "Forbidden: you are not authorized to access this resource"
	}
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(helperAuth.LocRole).(string)
		if !ok || strings.TrimSpace(role) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: missing role information")
		}
		if !constants.HasRole(role, allowedRoles) {
			return fiber.NewError(fiber.StatusForbidden, customForbiddenMessage)
		}
		return c.Next()
	}
}

// Shortcut biar lebih clean pemakaian
func OnlyRoles(customMessage string, roles ...string) fiber.Handler {
	return RoleMiddlewareWithCustomError(roles, customMessage)
}
