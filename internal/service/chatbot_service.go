package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/domain"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/repository"
)

type ChatbotService struct {
	chatbotRepo repository.ChatbotRepository
	keyRepo     repository.APIKeyRepository
}

func NewChatbotService(chatbotRepo repository.ChatbotRepository, keyRepo repository.APIKeyRepository) *ChatbotService {
	return &ChatbotService{
		chatbotRepo: chatbotRepo,
		keyRepo:     keyRepo,
	}
}

// CreateChatbotInput holds the fields accepted when creating a chatbot
type CreateChatbotInput struct {
	Name        string
	Description *string
	Type        domain.ChatbotType
}

// Create adds a chatbot to tenantID. New chatbots start active.
func (s *ChatbotService) Create(ctx context.Context, tenantID uuid.UUID, input CreateChatbotInput) (*domain.Chatbot, error) {
	const op = "chatbot.create"

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.NewError(domain.CodeInvalidInput, op, "name is required")
	}
	if !input.Type.Valid() {
		return nil, domain.NewError(domain.CodeInvalidInput, op, "type must be public or internal")
	}

	chatbot := &domain.Chatbot{
		ID:          uuid.New(),
		CompanyID:   tenantID,
		Name:        name,
		Description: input.Description,
		Type:        input.Type,
		IsActive:    true,
	}

	if err := s.chatbotRepo.Create(ctx, chatbot); err != nil {
		log.Error().Err(err).Str("op", op).Str("tenant_id", tenantID.String()).Msg("Failed to create chatbot")
		return nil, domain.Internal(op, err)
	}

	return chatbot, nil
}

// ListForTenant returns the tenant's chatbots, including inactive ones
func (s *ChatbotService) ListForTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.Chatbot, error) {
	chatbots, err := s.chatbotRepo.ListByCompanyID(ctx, tenantID)
	if err != nil {
		log.Error().Err(err).Str("op", "chatbot.list").Str("tenant_id", tenantID.String()).Msg("Failed to list chatbots")
		return nil, domain.Internal("chatbot.list", err)
	}
	return chatbots, nil
}

// GetPublic returns public metadata. Inactive chatbots do not exist on this path.
func (s *ChatbotService) GetPublic(ctx context.Context, id uuid.UUID) (*domain.PublicChatbot, error) {
	const op = "chatbot.get_public"

	chatbot, err := s.chatbotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewError(domain.CodeNotFound, op, "chatbot not found")
		}
		log.Error().Err(err).Str("op", op).Str("chatbot_id", id.String()).Msg("Failed to load chatbot")
		return nil, domain.Internal(op, err)
	}

	if !chatbot.IsActive {
		return nil, domain.NewError(domain.CodeNotFound, op, "chatbot not found")
	}

	public := chatbot.Public()
	return &public, nil
}

// Summary gathers dashboard counts for an authorized chatbot. The reads are
// independent and run concurrently.
func (s *ChatbotService) Summary(ctx context.Context, chatbot *domain.Chatbot) (*domain.ChatbotSummary, error) {
	const op = "chatbot.summary"

	summary := &domain.ChatbotSummary{ChatbotID: chatbot.ID}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.keyRepo.CountByChatbotID(gctx, chatbot.ID, true)
		summary.ActiveAPIKeys = n
		return err
	})
	g.Go(func() error {
		n, err := s.keyRepo.CountByChatbotID(gctx, chatbot.ID, false)
		summary.RevokedAPIKeys = n
		return err
	})
	g.Go(func() error {
		n, err := s.chatbotRepo.CountByCompanyID(gctx, chatbot.CompanyID)
		summary.TenantChatbots = n
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Str("op", op).Str("chatbot_id", chatbot.ID.String()).Msg("Failed to build chatbot summary")
		return nil, domain.Internal(op, err)
	}

	return summary, nil
}
