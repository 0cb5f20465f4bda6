package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CorsMiddleware membuat middleware CORS. origins kosong berarti "*"
// (tanpa credentials).
func CorsMiddleware(origins []string) fiber.Handler {
	cleaned := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			cleaned = append(cleaned, o)
		}
	}
	if len(cleaned) == 0 {
		return cors.New(cors.Config{
			AllowOrigins: "*",
			AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
			AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		})
	}
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(cleaned, ", "),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders:    "X-Request-ID",
		AllowCredentials: true,
	})
}
