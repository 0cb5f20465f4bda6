package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nothotgamer/hostelixpro/internals/constants"
	studentRepo "github.com/nothotgamer/hostelixpro/internals/features/students/repository"
	"github.com/nothotgamer/hostelixpro/internals/features/users/auth/dto"
	"github.com/nothotgamer/hostelixpro/internals/features/users/auth/service"
	userRepo "github.com/nothotgamer/hostelixpro/internals/features/users/repository"
	helper "github.com/nothotgamer/hostelixpro/internals/helpers"
	helperAuth "github.com/nothotgamer/hostelixpro/internals/helpers/auth"
)

type AuthController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Login     *service.LoginService
	Log       *zap.Logger
}

func NewAuthController(db *gorm.DB, secret string, ttl time.Duration, log *zap.Logger) *AuthController {
	return &AuthController{
		DB:        db,
		Validator: validator.New(),
		Login:     service.NewLoginService(db, secret, ttl),
		Log:       log.Named("auth"),
	}
}

// POST /api/auth/login
func (ctl *AuthController) PostLogin(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := ctl.Login.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    res.AccessToken,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  time.UnixMilli(res.ExpiresAt),
	})
	return helper.JsonOK(c, "Login successful", res)
}

// GET /api/auth/me
func (ctl *AuthController) Me(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}
	ctx := c.UserContext()

	user, err := userRepo.FindUserByID(ctx, ctl.DB, actor.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}
	if err != nil {
		return helper.FromServiceError(c, ctl.Log, err)
	}

	out := fiber.Map{"user": user}
	if actor.Is(constants.RoleStudent) {
		st, err := studentRepo.FindByUserID(ctx, ctl.DB, actor.UserID)
		if err != nil {
			return helper.FromServiceError(c, ctl.Log, err)
		}
		out["student"] = st
	}
	return helper.JsonOK(c, "Current user", out)
}
