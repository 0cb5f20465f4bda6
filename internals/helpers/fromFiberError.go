package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/nothotgamer/hostelixpro/internals/helpers/apperr"
)

// StatusForKind maps a service error kind to its HTTP status.
func StatusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindInvalidState, apperr.KindConflict,
		apperr.KindAlreadyApproved, apperr.KindAlreadyRejected, apperr.KindAlreadySettled:
		return fiber.StatusConflict
	case apperr.KindLimitExceeded:
		return fiber.StatusUnprocessableEntity
	case apperr.KindUnauthorized:
		return fiber.StatusForbidden
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// FromServiceError writes err as the standard error envelope. Errors without a
// kind are infrastructure failures: logged, and answered with a generic 500.
func FromServiceError(c *fiber.Ctx, log *zap.Logger, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}

	kind := apperr.KindOf(err)
	if kind == "" {
		if log != nil {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}
		return JsonError(c, fiber.StatusInternalServerError, "Internal server error")
	}
	return JsonErrorCode(c, StatusForKind(kind), string(kind), err.Error())
}
