package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/handler/middleware"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/handler/response"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/service"
	"github.com/ombhut175/ai-chatbot-platform-sub001/pkg/validator"
)

// APIKeyHandler serves /api/chatbots/:id/api-keys. Every route runs behind
// RequireTenant and RequireChatbot, so the chatbot in Locals is authorized.
type APIKeyHandler struct {
	keyService *service.APIKeyService
	validator  *validator.Validator
}

func NewAPIKeyHandler(keyService *service.APIKeyService, validator *validator.Validator) *APIKeyHandler {
	return &APIKeyHandler{
		keyService: keyService,
		validator:  validator,
	}
}

type CreateAPIKeyRequest struct {
	Name *string `json:"name" validate:"omitempty,max=100"`
}

// List returns the chatbot's keys with masked values
// GET /api/chatbots/:id/api-keys
func (h *APIKeyHandler) List(c *fiber.Ctx) error {
	chatbot := middleware.ChatbotFrom(c)

	keys, err := h.keyService.List(c.UserContext(), chatbot.ID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, keys)
}

// Create issues a key. The secret is in this response and nowhere else.
// POST /api/chatbots/:id/api-keys
func (h *APIKeyHandler) Create(c *fiber.Ctx) error {
	chatbot := middleware.ChatbotFrom(c)

	var req CreateAPIKeyRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.Invalid(c, "invalid request body")
		}
	}
	if err := h.validator.Validate(req); err != nil {
		return response.Error(c, err)
	}

	issued, err := h.keyService.Issue(c.UserContext(), chatbot.ID, req.Name)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, issued)
}

// Revoke deactivates a key of the chatbot. Repeating it is harmless.
// DELETE /api/chatbots/:id/api-keys/:keyId
func (h *APIKeyHandler) Revoke(c *fiber.Ctx) error {
	chatbot := middleware.ChatbotFrom(c)

	keyID, err := uuid.Parse(c.Params("keyId"))
	if err != nil {
		return response.Invalid(c, "invalid api key id")
	}

	if err := h.keyService.Revoke(c.UserContext(), chatbot.ID, keyID); err != nil {
		return response.Error(c, err)
	}

	return response.Message(c, "API key revoked")
}
