package middleware

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/domain"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/handler/response"
)

// RecoveryMiddleware recovers from panics and returns 500 error. Mount it
// inside requestid and LoggerMiddleware so crashed requests are still logged.
func RecoveryMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				event := log.Error().
					Interface("panic", r).
					Str("method", c.Method()).
					Str("path", c.Path())
				if requestID, ok := c.Locals("requestid").(string); ok {
					event = event.Str("request_id", requestID)
				}
				event.Bytes("stack", debug.Stack()).Msg("Recovered from panic")

				err = response.Error(c, domain.ErrInternal)
			}
		}()

		return c.Next()
	}
}
