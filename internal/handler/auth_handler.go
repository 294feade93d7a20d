package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/handler/middleware"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/handler/response"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/service"
)

type AuthHandler struct {
	sessionService *service.SessionService
}

func NewAuthHandler(sessionService *service.SessionService) *AuthHandler {
	return &AuthHandler{sessionService: sessionService}
}

// Logout revokes the presented session token until it expires
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.sessionService.Revoke(c.UserContext(), middleware.SessionTokenFrom(c)); err != nil {
		return response.Error(c, err)
	}

	return response.Message(c, "Logged out successfully")
}
