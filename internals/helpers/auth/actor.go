package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys, diisi oleh middleware AuthJWT.
const (
	LocUserID = "user_id"
	LocRole   = "userRole"
)

// Actor is the authenticated (user, role) pair handed to the services.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

func (a Actor) Is(role string) bool { return a.Role == role }

// ActorFromCtx reads the identity placed in Locals by AuthJWT.
func ActorFromCtx(c *fiber.Ctx) (Actor, error) {
	raw, _ := c.Locals(LocUserID).(string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Actor{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - missing user id")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return Actor{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - invalid user id")
	}
	role, _ := c.Locals(LocRole).(string)
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return Actor{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - missing role")
	}
	return Actor{UserID: id, Role: role}, nil
}
