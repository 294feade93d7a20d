package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORSMiddleware configures and returns CORS middleware. Credentials are only
// allowed with an explicit origin list; the widget calls in from any origin.
func CORSMiddleware(allowedOrigins string) fiber.Handler {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type,Authorization,X-API-Key",
		AllowCredentials: allowedOrigins != "*",
	})
}
