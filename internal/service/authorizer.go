package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/domain"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/repository"
	"github.com/ombhut175/ai-chatbot-platform-sub001/pkg/metrics"
)

// Authorizer is the single ownership check for chatbot-scoped operations.
// Results are never cached; every request re-reads the chatbot row.
type Authorizer struct {
	chatbotRepo repository.ChatbotRepository
	metrics     metrics.Recorder
}

func NewAuthorizer(chatbotRepo repository.ChatbotRepository, recorder metrics.Recorder) *Authorizer {
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return &Authorizer{
		chatbotRepo: chatbotRepo,
		metrics:     recorder,
	}
}

// Authorize returns the chatbot when it belongs to tenantID. An absent row is
// ErrNotFound; a row owned by another tenant is ErrForbidden.
func (a *Authorizer) Authorize(ctx context.Context, tenantID, chatbotID uuid.UUID) (*domain.Chatbot, error) {
	const op = "authorize.chatbot"

	if tenantID == uuid.Nil {
		a.metrics.IncDecision("authorize", "no_tenant")
		return nil, domain.NewError(domain.CodeNoTenant, op, "user is not associated with a company")
	}

	chatbot, err := a.chatbotRepo.GetByID(ctx, chatbotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			a.metrics.IncDecision("authorize", "not_found")
			return nil, domain.NewError(domain.CodeNotFound, op, "chatbot not found")
		}
		a.metrics.IncDecision("authorize", "error")
		log.Error().Err(err).Str("op", op).Str("chatbot_id", chatbotID.String()).Msg("Failed to load chatbot")
		return nil, domain.Internal(op, err)
	}

	if !chatbot.OwnedBy(tenantID) {
		a.metrics.IncDecision("authorize", "forbidden")
		log.Warn().
			Str("chatbot_id", chatbotID.String()).
			Str("tenant_id", tenantID.String()).
			Msg("Cross-tenant chatbot access denied")
		return nil, domain.NewError(domain.CodeForbidden, op, "you do not have access to this chatbot")
	}

	a.metrics.IncDecision("authorize", "allowed")
	return chatbot, nil
}

// AuthorizeHidden applies the publicly-addressable-id policy: a chatbot of
// another tenant is reported as not found.
func (a *Authorizer) AuthorizeHidden(ctx context.Context, tenantID, chatbotID uuid.UUID) (*domain.Chatbot, error) {
	chatbot, err := a.Authorize(ctx, tenantID, chatbotID)
	if errors.Is(err, domain.ErrForbidden) {
		return nil, domain.NewError(domain.CodeNotFound, "authorize.chatbot", "chatbot not found")
	}
	return chatbot, err
}
