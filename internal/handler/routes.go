package handler

import (
	"github.com/gofiber/fiber/v2"
)

// Handlers groups everything SetupRoutes mounts
type Handlers struct {
	Auth    *AuthHandler
	Company *CompanyHandler
	Chatbot *ChatbotHandler
	APIKey  *APIKeyHandler
	Chat    *ChatHandler
	Health  *HealthHandler
	Metrics fiber.Handler
}

// SetupRoutes mounts the API. The gateway middleware has already decided
// whether a session is needed; requireTenant and requireChatbot narrow
// management routes to the caller's company and to chatbots it owns.
func SetupRoutes(
	app *fiber.App,
	h Handlers,
	requireTenant fiber.Handler,
	requireChatbot fiber.Handler,
) {
	// Health checks (public)
	app.Get("/health", h.Health.Health)
	app.Get("/ready", h.Health.Ready)
	if h.Metrics != nil {
		app.Get("/metrics", h.Metrics)
	}

	api := app.Group("/api")

	// Session
	api.Post("/auth/logout", h.Auth.Logout)

	// Unified chat (API key or session, decided per chatbot type)
	api.Post("/chat", h.Chat.Send)

	// Onboarding
	api.Post("/companies", h.Company.Create)
	api.Get("/companies/me", requireTenant, h.Company.GetMine)

	// Public metadata, registered before /:id
	api.Get("/chatbots/public/:id", h.Chatbot.GetPublic)

	// Tenant scoped
	api.Get("/chatbots", requireTenant, h.Chatbot.List)
	api.Post("/chatbots", requireTenant, h.Chatbot.Create)

	// Chatbot scoped: every route here passes the ownership check
	api.Get("/chatbots/:id", requireTenant, requireChatbot, h.Chatbot.Get)
	api.Get("/chatbots/:id/summary", requireTenant, requireChatbot, h.Chatbot.Summary)
	api.Get("/chatbots/:id/api-keys", requireTenant, requireChatbot, h.APIKey.List)
	api.Post("/chatbots/:id/api-keys", requireTenant, requireChatbot, h.APIKey.Create)
	api.Delete("/chatbots/:id/api-keys/:keyId", requireTenant, requireChatbot, h.APIKey.Revoke)
}
