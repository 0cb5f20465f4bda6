package middlewares

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// RecoveryMiddleware menangkap panic dan mengembalikan error 500
func RecoveryMiddleware(log *zap.Logger) fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			log.Error("panic recovered",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("panic", fmt.Sprint(e)),
				zap.ByteString("stack", debug.Stack()),
			)
		},
	})
}
