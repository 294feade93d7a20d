package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/domain"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/gateway"
)

const (
	localAccess       = "access"
	localIdentity     = "identity"
	localSessionToken = "session_token"
	localKeyBinding   = "api_key_binding"
	localTenantID     = "tenant_id"
	localChatbot      = "chatbot"
)

// AccessFrom returns the gateway's classification of the request
func AccessFrom(c *fiber.Ctx) gateway.Access {
	access, _ := c.Locals(localAccess).(gateway.Access)
	return access
}

// IdentityFrom returns the session identity, nil on public paths
func IdentityFrom(c *fiber.Ctx) *domain.Identity {
	identity, _ := c.Locals(localIdentity).(*domain.Identity)
	return identity
}

// SessionTokenFrom returns the raw session token if the request carried one
func SessionTokenFrom(c *fiber.Ctx) string {
	token, _ := c.Locals(localSessionToken).(string)
	return token
}

// KeyBindingFrom returns the verified API key binding, if any
func KeyBindingFrom(c *fiber.Ctx) *domain.KeyBinding {
	binding, _ := c.Locals(localKeyBinding).(*domain.KeyBinding)
	return binding
}

// TenantFrom returns the resolved company id
func TenantFrom(c *fiber.Ctx) (uuid.UUID, bool) {
	tenantID, ok := c.Locals(localTenantID).(uuid.UUID)
	return tenantID, ok && tenantID != uuid.Nil
}

// ChatbotFrom returns the chatbot authorized for this request
func ChatbotFrom(c *fiber.Ctx) *domain.Chatbot {
	chatbot, _ := c.Locals(localChatbot).(*domain.Chatbot)
	return chatbot
}

// ExtractSessionToken reads a bearer token, falling back to the identity
// backend's session cookie
func ExtractSessionToken(c *fiber.Ctx, cookieName string) string {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookieName == "" {
		return ""
	}
	return strings.TrimSpace(c.Cookies(cookieName))
}
