package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/domain"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/handler/response"
)

// ErrorHandler renders errors that escape handlers, including Fiber's own
// routing errors, in the shared envelope
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := domain.CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = domain.CodeNotFound
		case fiber.StatusMethodNotAllowed, fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge:
			code = domain.CodeInvalidInput
		}
		return c.Status(fe.Code).JSON(response.Envelope{
			Success: false,
			Error:   &response.ErrorBody{Code: code, Message: fe.Message},
		})
	}

	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("Unhandled request error")
	return response.Error(c, err)
}
