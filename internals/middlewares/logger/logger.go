package logger

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	HeaderRequestID = "X-Request-ID"
	LocRequestID    = "request_id"
)

// RequestID reuses an incoming X-Request-ID or issues a new UUID.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocRequestID, rid)
		c.Set(HeaderRequestID, rid)
		return c.Next()
	}
}

// LoggerMiddleware untuk mencatat semua request
func LoggerMiddleware(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		level := zapcore.InfoLevel
		switch {
		case status >= 500:
			level = zapcore.ErrorLevel
		case status >= 400:
			level = zapcore.WarnLevel
		}

		rid, _ := c.Locals(LocRequestID).(string)
		if ce := log.Check(level, "request"); ce != nil {
			ce.Write(
				zap.String("request_id", rid),
				zap.String("ip", c.IP()),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
			)
		}
		return err
	}
}
