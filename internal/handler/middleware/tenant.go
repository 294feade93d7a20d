package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/domain"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/handler/response"
)

// TenantResolver maps an identity to its company
type TenantResolver interface {
	Resolve(ctx context.Context, identity *domain.Identity) (uuid.UUID, error)
}

// ChatbotAuthorizer checks that a chatbot belongs to a tenant
type ChatbotAuthorizer interface {
	Authorize(ctx context.Context, tenantID, chatbotID uuid.UUID) (*domain.Chatbot, error)
}

// RequireTenant resolves the caller's company. Users without one get 400.
func RequireTenant(tenants TenantResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := IdentityFrom(c)
		if identity == nil {
			return response.Error(c, domain.ErrUnauthenticated)
		}

		tenantID, err := tenants.Resolve(c.UserContext(), identity)
		if err != nil {
			return response.Error(c, err)
		}

		c.Locals(localTenantID, tenantID)
		return c.Next()
	}
}

// RequireChatbot authorizes the chatbot named by the route parameter for the
// resolved tenant. It must run after RequireTenant on every chatbot-scoped route.
func RequireChatbot(authorizer ChatbotAuthorizer, param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, ok := TenantFrom(c)
		if !ok {
			return response.Error(c, domain.ErrNoTenant)
		}

		chatbotID, err := uuid.Parse(c.Params(param))
		if err != nil {
			return response.Invalid(c, "invalid chatbot id")
		}

		chatbot, err := authorizer.Authorize(c.UserContext(), tenantID, chatbotID)
		if err != nil {
			return response.Error(c, err)
		}

		c.Locals(localChatbot, chatbot)
		return c.Next()
	}
}
