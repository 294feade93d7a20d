package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/domain"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/gateway"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/handler/response"
	"github.com/ombhut175/ai-chatbot-platform-sub001/pkg/metrics"
)

// HeaderAPIKey carries chatbot API keys on public chat requests
const HeaderAPIKey = "X-API-Key"

// SessionResolver resolves a session token to an identity
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Identity, error)
}

// KeyVerifier resolves a presented API key to its binding
type KeyVerifier interface {
	Verify(ctx context.Context, presented string) (*domain.KeyBinding, error)
}

// GatewayConfig wires the front door of every request
type GatewayConfig struct {
	Classifier *gateway.Classifier
	Sessions   SessionResolver
	Keys       KeyVerifier
	CookieName string
	Metrics    metrics.Recorder
}

// GatewayMiddleware classifies the path before any handler runs and enforces
// the result: session paths need a valid session, API-key paths verify a
// presented key, public paths pass untouched.
func GatewayMiddleware(cfg GatewayConfig) fiber.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	classifier := cfg.Classifier
	if classifier == nil {
		classifier = gateway.NewClassifier()
	}

	return func(c *fiber.Ctx) error {
		access := classifier.Classify(c.Path())
		c.Locals(localAccess, access)

		switch access {
		case gateway.PublicNoAuth:
			return c.Next()

		case gateway.PublicAPIKey:
			if token := ExtractSessionToken(c, cfg.CookieName); token != "" {
				c.Locals(localSessionToken, token)
			}
			key := c.Get(HeaderAPIKey)
			if key == "" {
				return c.Next()
			}
			binding, err := cfg.Keys.Verify(c.UserContext(), key)
			if err != nil {
				recorder.IncDecision("api_key", string(domain.CodeOf(err)))
				return response.Error(c, err)
			}
			recorder.IncDecision("api_key", "allowed")
			c.Locals(localKeyBinding, binding)
			return c.Next()

		default:
			token := ExtractSessionToken(c, cfg.CookieName)
			identity, err := cfg.Sessions.Resolve(c.UserContext(), token)
			if err != nil {
				recorder.IncDecision("session", string(domain.CodeOf(err)))
				return response.Error(c, err)
			}
			recorder.IncDecision("session", "allowed")
			c.Locals(localIdentity, identity)
			c.Locals(localSessionToken, token)
			return c.Next()
		}
	}
}
