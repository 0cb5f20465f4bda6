package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "github.com/nothotgamer/hostelixpro/internals/helpers"
)

// Global limiter: untuk semua endpoint biasa
func GlobalRateLimiter(max int) fiber.Handler {
	if max <= 0 {
		max = 100
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		Next: func(c *fiber.Ctx) bool {
			// health & metrics tidak dihitung
			p := c.Path()
			return p == "/health" || p == "/metrics"
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, "Too many requests, please try again later")
		},
	})
}

// WriteRateLimiter is the stricter limiter mounted on submission endpoints.
func WriteRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|" + c.Path()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, "Too many submissions, slow down")
		},
	})
}

// LoginRateLimiter: brute-force guard untuk /api/auth/login.
func LoginRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        10,
		Expiration: 5 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "login|" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, "Too many login attempts, try again later")
		},
	})
}
