package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/domain"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/handler/middleware"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/handler/response"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/service"
	"github.com/ombhut175/ai-chatbot-platform-sub001/pkg/validator"
)

type ChatbotHandler struct {
	chatbotService *service.ChatbotService
	validator      *validator.Validator
}

func NewChatbotHandler(chatbotService *service.ChatbotService, validator *validator.Validator) *ChatbotHandler {
	return &ChatbotHandler{
		chatbotService: chatbotService,
		validator:      validator,
	}
}

type CreateChatbotRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Type        string  `json:"type" validate:"required,chatbot_type"`
}

// List returns the tenant's chatbots
// GET /api/chatbots
func (h *ChatbotHandler) List(c *fiber.Ctx) error {
	tenantID, _ := middleware.TenantFrom(c)

	chatbots, err := h.chatbotService.ListForTenant(c.UserContext(), tenantID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, chatbots)
}

// Create adds a chatbot to the caller's company
// POST /api/chatbots
func (h *ChatbotHandler) Create(c *fiber.Ctx) error {
	tenantID, _ := middleware.TenantFrom(c)

	var req CreateChatbotRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Invalid(c, "invalid request body")
	}
	if err := h.validator.Validate(req); err != nil {
		return response.Error(c, err)
	}

	chatbot, err := h.chatbotService.Create(c.UserContext(), tenantID, service.CreateChatbotInput{
		Name:        req.Name,
		Description: req.Description,
		Type:        domain.ChatbotType(req.Type),
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.JSON(c, fiber.StatusCreated, chatbot)
}

// Get returns the management view of an authorized chatbot
// GET /api/chatbots/:id
func (h *ChatbotHandler) Get(c *fiber.Ctx) error {
	return response.OK(c, middleware.ChatbotFrom(c))
}

// Summary returns key and tenant counts for an authorized chatbot
// GET /api/chatbots/:id/summary
func (h *ChatbotHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.chatbotService.Summary(c.UserContext(), middleware.ChatbotFrom(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, summary)
}

// GetPublic returns widget metadata for an active chatbot. No session needed.
// GET /api/chatbots/public/:id
func (h *ChatbotHandler) GetPublic(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Invalid(c, "invalid chatbot id")
	}

	chatbot, err := h.chatbotService.GetPublic(c.UserContext(), id)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, chatbot)
}
