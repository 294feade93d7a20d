package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/domain"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/gateway"
)

type stubSessions struct {
	identities map[string]*domain.Identity
	calls      int
}

func (s *stubSessions) Resolve(_ context.Context, token string) (*domain.Identity, error) {
	s.calls++
	if identity, ok := s.identities[token]; ok {
		return identity, nil
	}
	return nil, domain.ErrUnauthenticated
}

type stubKeys map[string]*domain.KeyBinding

func (k stubKeys) Verify(_ context.Context, presented string) (*domain.KeyBinding, error) {
	if binding, ok := k[presented]; ok {
		return binding, nil
	}
	return nil, domain.ErrUnauthenticated
}

type stubTenants map[uuid.UUID]uuid.UUID

func (s stubTenants) Resolve(_ context.Context, identity *domain.Identity) (uuid.UUID, error) {
	if tenantID, ok := s[identity.UserID]; ok {
		return tenantID, nil
	}
	return uuid.Nil, domain.ErrNoTenant
}

type stubAuthorizer map[uuid.UUID]uuid.UUID

func (a stubAuthorizer) Authorize(_ context.Context, tenantID, chatbotID uuid.UUID) (*domain.Chatbot, error) {
	owner, ok := a[chatbotID]
	switch {
	case !ok:
		return nil, domain.ErrNotFound
	case owner != tenantID:
		return nil, domain.ErrForbidden
	}
	return &domain.Chatbot{ID: chatbotID, CompanyID: owner}, nil
}

func newGatewayApp(sessions *stubSessions, keys stubKeys) *fiber.App {
	app := fiber.New()
	app.Use(GatewayMiddleware(GatewayConfig{
		Classifier: gateway.NewClassifier(),
		Sessions:   sessions,
		Keys:       keys,
		CookieName: "sb-access-token",
	}))

	echo := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"access":  AccessFrom(c).String(),
			"session": SessionTokenFrom(c),
			"bound":   KeyBindingFrom(c) != nil,
			"user":    IdentityFrom(c) != nil,
		})
	}
	app.All("/*", echo)
	return app
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) int {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp.StatusCode
}

func TestGateway_SessionRequired(t *testing.T) {
	userID := uuid.New()
	sessions := &stubSessions{identities: map[string]*domain.Identity{"good": {UserID: userID}}}
	app := newGatewayApp(sessions, stubKeys{})

	req := httptest.NewRequest(http.MethodGet, "/api/chatbots", nil)
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, app, req))

	req = httptest.NewRequest(http.MethodGet, "/api/chatbots", nil)
	req.Header.Set("Authorization", "Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, app, req))

	req = httptest.NewRequest(http.MethodGet, "/api/chatbots", nil)
	req.Header.Set("Authorization", "Bearer good")
	assert.Equal(t, http.StatusOK, doRequest(t, app, req))

	req = httptest.NewRequest(http.MethodGet, "/chat/internal/abc", nil)
	req.AddCookie(&http.Cookie{Name: "sb-access-token", Value: "good"})
	assert.Equal(t, http.StatusOK, doRequest(t, app, req))
}

func TestGateway_PublicSkipsSession(t *testing.T) {
	sessions := &stubSessions{}
	app := newGatewayApp(sessions, stubKeys{})

	for _, p := range []string{"/chat", "/chat/public", "/widget.js", "/api/chatbots/public/x", "/api/inngest", "/health", "/_next/static/app.js"} {
		req := httptest.NewRequest(http.MethodGet, p, nil)
		assert.Equal(t, http.StatusOK, doRequest(t, app, req), p)
	}
	assert.Zero(t, sessions.calls)
}

func TestGateway_PublicAPIKey(t *testing.T) {
	binding := &domain.KeyBinding{KeyID: uuid.New(), ChatbotID: uuid.New(), CompanyID: uuid.New()}
	app := newGatewayApp(&stubSessions{}, stubKeys{"cbk_valid": binding})

	// no key: the handler decides by chatbot type
	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	assert.Equal(t, http.StatusOK, doRequest(t, app, req))

	req = httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.Header.Set(HeaderAPIKey, "cbk_valid")
	assert.Equal(t, http.StatusOK, doRequest(t, app, req))

	req = httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.Header.Set(HeaderAPIKey, "cbk_revoked")
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, app, req))
}

func TestExtractSessionToken(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(ExtractSessionToken(c, "sb-access-token"))
	})

	read := func(req *http.Request) string {
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		buf := make([]byte, 64)
		n, _ := resp.Body.Read(buf)
		return string(buf[:n])
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer abc")
	assert.Equal(t, "abc", read(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc")
	req.AddCookie(&http.Cookie{Name: "sb-access-token", Value: "cookie"})
	assert.Equal(t, "", read(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sb-access-token", Value: "cookie"})
	assert.Equal(t, "cookie", read(req))
}

func TestRequireTenantAndChatbot(t *testing.T) {
	userA, userNoTenant := uuid.New(), uuid.New()
	tenantA, tenantB := uuid.New(), uuid.New()
	chatbotA, chatbotB := uuid.New(), uuid.New()

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		switch c.Get("X-User") {
		case "a":
			c.Locals(localIdentity, &domain.Identity{UserID: userA})
		case "none":
			c.Locals(localIdentity, &domain.Identity{UserID: userNoTenant})
		}
		return c.Next()
	})
	app.Get("/chatbots/:id",
		RequireTenant(stubTenants{userA: tenantA}),
		RequireChatbot(stubAuthorizer{chatbotA: tenantA, chatbotB: tenantB}, "id"),
		func(c *fiber.Ctx) error {
			if tenantID, ok := TenantFrom(c); !ok || tenantID != tenantA {
				return c.SendStatus(http.StatusTeapot)
			}
			return c.SendString(ChatbotFrom(c).ID.String())
		},
	)

	tests := []struct {
		name   string
		user   string
		id     string
		status int
	}{
		{"owner", "a", chatbotA.String(), http.StatusOK},
		{"other tenant", "a", chatbotB.String(), http.StatusForbidden},
		{"absent", "a", uuid.NewString(), http.StatusNotFound},
		{"malformed id", "a", "123", http.StatusBadRequest},
		{"no company", "none", chatbotA.String(), http.StatusBadRequest},
		{"no identity", "", chatbotA.String(), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/chatbots/"+tt.id, nil)
			req.Header.Set("X-User", tt.user)
			assert.Equal(t, tt.status, doRequest(t, app, req))
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(RecoveryMiddleware())
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, doRequest(t, app, req))
}

func TestRecoveredPanicIsStillLogged(t *testing.T) {
	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = previous })

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(LoggerMiddleware())
	app.Use(RecoveryMiddleware())
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-42")
	assert.Equal(t, http.StatusInternalServerError, doRequest(t, app, req))

	var recovered, completed map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		switch entry["message"] {
		case "Recovered from panic":
			recovered = entry
		case "Request completed":
			completed = entry
		}
	}

	require.NotNil(t, recovered)
	assert.Equal(t, "req-42", recovered["request_id"])
	require.NotNil(t, completed)
	assert.Equal(t, "req-42", completed["request_id"])
	assert.Equal(t, float64(http.StatusInternalServerError), completed["status"])
}
