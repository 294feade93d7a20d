package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/handler/middleware"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/handler/response"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/service"
	"github.com/ombhut175/ai-chatbot-platform-sub001/pkg/validator"
)

type ChatHandler struct {
	chatService *service.ChatService
	validator   *validator.Validator
}

func NewChatHandler(chatService *service.ChatService, validator *validator.Validator) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		validator:   validator,
	}
}

type SendMessageRequest struct {
	ChatbotID string `json:"chatbot_id" validate:"required,uuid"`
	SessionID string `json:"session_id" validate:"omitempty,uuid"`
	Message   string `json:"message" validate:"required,max=4000"`
}

// Send accepts a message for the chat pipeline
// POST /api/chat
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Invalid(c, "invalid request body")
	}
	if err := h.validator.Validate(req); err != nil {
		return response.Error(c, err)
	}

	// both already passed the uuid rule
	chatbotID := uuid.MustParse(req.ChatbotID)
	sessionID := uuid.Nil
	if req.SessionID != "" {
		sessionID = uuid.MustParse(req.SessionID)
	}

	caller := service.ChatCaller{
		Binding:      middleware.KeyBindingFrom(c),
		SessionToken: middleware.SessionTokenFrom(c),
	}

	receipt, err := h.chatService.Send(c.UserContext(), caller, chatbotID, sessionID, req.Message)
	if err != nil {
		return response.Error(c, err)
	}

	return response.JSON(c, fiber.StatusAccepted, receipt)
}
