// Package response writes the JSON envelope shared by every endpoint:
// {"success": true, "data": ...} or {"success": false, "error": {...}}.
package response

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/domain"
)

type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    domain.Code `json:"code"`
	Message string      `json:"message"`
}

// OK writes a 200 success envelope
func OK(c *fiber.Ctx, data interface{}) error {
	return JSON(c, fiber.StatusOK, data)
}

// JSON writes a success envelope with the given status
func JSON(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(Envelope{Success: true, Data: data})
}

// Message writes a success envelope with only a message
func Message(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{Success: true, Message: message})
}

// Error writes the failure envelope for err. Internal causes are not exposed.
func Error(c *fiber.Ctx, err error) error {
	code := domain.CodeOf(err)
	return c.Status(Status(code)).JSON(Envelope{
		Success: false,
		Error: &ErrorBody{
			Code:    code,
			Message: domain.MessageOf(err),
		},
	})
}

// Invalid writes a 400 for malformed input
func Invalid(c *fiber.Ctx, message string) error {
	return Error(c, domain.NewError(domain.CodeInvalidInput, "", message))
}

// Status maps every error code to its HTTP status
func Status(code domain.Code) int {
	switch code {
	case domain.CodeUnauthenticated:
		return fiber.StatusUnauthorized
	case domain.CodeNoTenant, domain.CodeInvalidInput:
		return fiber.StatusBadRequest
	case domain.CodeForbidden:
		return fiber.StatusForbidden
	case domain.CodeNotFound:
		return fiber.StatusNotFound
	case domain.CodeConflict:
		return fiber.StatusConflict
	case domain.CodeInternal:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}
