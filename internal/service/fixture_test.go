package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/domain"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/repository/memory"
	"github.com/ombhut175/ai-chatbot-platform-sub001/pkg/blacklist"
)

// staticVerifier accepts exactly the tokens it was given
type staticVerifier map[string]*domain.SessionClaims

func (v staticVerifier) Verify(token string) (*domain.SessionClaims, error) {
	claims, ok := v[token]
	if !ok {
		return nil, errors.New("token rejected")
	}
	return claims, nil
}

type recordingDispatcher struct {
	messages []*domain.ChatMessage
	err      error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, msg *domain.ChatMessage) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	d.messages = append(d.messages, msg)
	return "1700000000000-0", nil
}

// fixture seeds two tenants. Tenant A owns a public and an internal chatbot,
// tenant B owns one public chatbot. userNoCompany has not onboarded yet.
type fixture struct {
	store      *memory.Store
	redis      *miniredis.Miniredis
	verifier   staticVerifier
	dispatcher *recordingDispatcher

	sessions   *SessionService
	tenants    *TenantService
	authorizer *Authorizer
	keys       *APIKeyService
	chatbots   *ChatbotService
	chat       *ChatService

	tenantA, tenantB              uuid.UUID
	userA, userB, userNoCompany   domain.User
	publicA, internalA, publicB   domain.Chatbot
	inactiveA                     domain.Chatbot
	tokenA, tokenB, tokenNoTenant string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:      memory.NewStore(),
		redis:      miniredis.RunT(t),
		verifier:   staticVerifier{},
		dispatcher: &recordingDispatcher{},
		tenantA:    uuid.New(),
		tenantB:    uuid.New(),
	}

	f.store.PutCompany(domain.Company{ID: f.tenantA, Name: "Acme"})
	f.store.PutCompany(domain.Company{ID: f.tenantB, Name: "Globex"})

	f.userA = f.addUser(t, "a@acme.test", &f.tenantA)
	f.userB = f.addUser(t, "b@globex.test", &f.tenantB)
	f.userNoCompany = f.addUser(t, "new@nowhere.test", nil)
	f.tokenA = f.issueToken(f.userA)
	f.tokenB = f.issueToken(f.userB)
	f.tokenNoTenant = f.issueToken(f.userNoCompany)

	f.publicA = f.addChatbot(f.tenantA, domain.ChatbotTypePublic, true)
	f.internalA = f.addChatbot(f.tenantA, domain.ChatbotTypeInternal, true)
	f.inactiveA = f.addChatbot(f.tenantA, domain.ChatbotTypePublic, false)
	f.publicB = f.addChatbot(f.tenantB, domain.ChatbotTypePublic, true)

	client := redis.NewClient(&redis.Options{Addr: f.redis.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f.sessions = NewSessionService(f.verifier, blacklist.NewTokenBlacklist(client))
	f.tenants = NewTenantService(f.store.Users(), f.store.Companies())
	f.authorizer = NewAuthorizer(f.store.Chatbots(), nil)
	f.keys = NewAPIKeyService(f.store.APIKeys(), nil)
	f.chatbots = NewChatbotService(f.store.Chatbots(), f.store.APIKeys())
	f.chat = NewChatService(f.store.Chatbots(), f.sessions, f.tenants, f.authorizer, f.dispatcher)
	return f
}

func (f *fixture) addUser(t *testing.T, email string, companyID *uuid.UUID) domain.User {
	t.Helper()
	user := domain.User{ID: uuid.New(), Email: email}
	if companyID != nil {
		id := *companyID
		role := domain.UserRoleOwner
		user.CompanyID = &id
		user.Role = &role
	}
	f.store.PutUser(user)
	return user
}

func (f *fixture) issueToken(user domain.User) string {
	token := "token-" + user.ID.String()
	f.verifier[token] = &domain.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: user.Email,
	}
	return token
}

func (f *fixture) addChatbot(tenantID uuid.UUID, kind domain.ChatbotType, active bool) domain.Chatbot {
	chatbot := domain.Chatbot{
		ID:        uuid.New(),
		CompanyID: tenantID,
		Name:      string(kind) + " bot",
		Type:      kind,
		IsActive:  active,
		CreatedAt: time.Now().UTC(),
	}
	f.store.PutChatbot(chatbot)
	return chatbot
}

func (f *fixture) identity(user domain.User) *domain.Identity {
	return &domain.Identity{UserID: user.ID, Email: user.Email}
}
