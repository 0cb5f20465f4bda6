package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helper "github.com/nothotgamer/hostelixpro/internals/helpers"
)

func notFoundOr(c *fiber.Ctx, ctl *FeeController, err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, msg)
	}
	return helper.FromServiceError(c, ctl.Log, err)
}
