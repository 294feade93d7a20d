package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/domain"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/repository"
	"github.com/ombhut175/ai-chatbot-platform-sub001/pkg/apikey"
	"github.com/ombhut175/ai-chatbot-platform-sub001/pkg/metrics"
)

// maxIssueAttempts bounds regeneration when a fresh secret collides with a stored hash
const maxIssueAttempts = 3

// APIKeyService manages chatbot API keys: ACTIVE -> REVOKED, never back.
// Callers must have authorized the chatbot before Issue, List or Revoke.
type APIKeyService struct {
	keyRepo  repository.APIKeyRepository
	generate func() (*apikey.Secret, error)
	now      func() time.Time
	metrics  metrics.Recorder
}

func NewAPIKeyService(keyRepo repository.APIKeyRepository, recorder metrics.Recorder) *APIKeyService {
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return &APIKeyService{
		keyRepo:  keyRepo,
		generate: apikey.Generate,
		now:      func() time.Time { return time.Now().UTC() },
		metrics:  recorder,
	}
}

// Issue creates an active key for chatbotID. The returned secret is the only
// copy that ever leaves the service.
func (s *APIKeyService) Issue(ctx context.Context, chatbotID uuid.UUID, name *string) (*domain.IssuedAPIKey, error) {
	const op = "api_key.issue"

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			name = nil
		} else {
			name = &trimmed
		}
	}

	for attempt := 1; attempt <= maxIssueAttempts; attempt++ {
		secret, err := s.generate()
		if err != nil {
			log.Error().Err(err).Str("op", op).Str("chatbot_id", chatbotID.String()).Msg("Failed to generate api key")
			return nil, domain.Internal(op, err)
		}

		key := &domain.APIKey{
			ID:        uuid.New(),
			ChatbotID: chatbotID,
			Name:      name,
			KeyHash:   secret.Hash,
			KeyPrefix: secret.Display,
			IsActive:  true,
			CreatedAt: s.now(),
		}

		err = s.keyRepo.Create(ctx, key)
		if errors.Is(err, repository.ErrDuplicate) {
			log.Warn().Str("chatbot_id", chatbotID.String()).Int("attempt", attempt).Msg("API key hash collision, regenerating")
			continue
		}
		if err != nil {
			log.Error().Err(err).Str("op", op).Str("chatbot_id", chatbotID.String()).Msg("Failed to store api key")
			return nil, domain.Internal(op, err)
		}

		s.metrics.IncAPIKeyEvent("issued")
		log.Info().Str("chatbot_id", chatbotID.String()).Str("key_id", key.ID.String()).Msg("API key issued")

		return &domain.IssuedAPIKey{
			ID:        key.ID,
			ChatbotID: key.ChatbotID,
			Name:      key.Name,
			APIKey:    secret.Value,
			KeyPrefix: key.KeyPrefix,
			IsActive:  key.IsActive,
			CreatedAt: key.CreatedAt,
		}, nil
	}

	return nil, domain.Internal(op, errors.New("could not generate a unique api key"))
}

// List returns every key of the chatbot, active and revoked, newest first.
// Secrets are never part of the result.
func (s *APIKeyService) List(ctx context.Context, chatbotID uuid.UUID) ([]domain.APIKeyListItem, error) {
	keys, err := s.keyRepo.ListByChatbotID(ctx, chatbotID)
	if err != nil {
		log.Error().Err(err).Str("op", "api_key.list").Str("chatbot_id", chatbotID.String()).Msg("Failed to list api keys")
		return nil, domain.Internal("api_key.list", err)
	}

	items := make([]domain.APIKeyListItem, 0, len(keys))
	for _, key := range keys {
		items = append(items, domain.APIKeyListItem{
			ID:        key.ID,
			ChatbotID: key.ChatbotID,
			Name:      key.Name,
			MaskedKey: apikey.Mask(key.KeyPrefix),
			IsActive:  key.IsActive,
			Status:    key.Status(),
			CreatedAt: key.CreatedAt,
			RevokedAt: key.RevokedAt,
		})
	}
	return items, nil
}

// Revoke deactivates keyID. The key must belong to chatbotID, otherwise it is
// reported as not found. Revoking a revoked key succeeds without a write.
func (s *APIKeyService) Revoke(ctx context.Context, chatbotID, keyID uuid.UUID) error {
	const op = "api_key.revoke"

	key, err := s.keyRepo.GetByID(ctx, keyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewError(domain.CodeNotFound, op, "api key not found")
		}
		log.Error().Err(err).Str("op", op).Str("key_id", keyID.String()).Msg("Failed to load api key")
		return domain.Internal(op, err)
	}

	if key.ChatbotID != chatbotID {
		log.Warn().
			Str("key_id", keyID.String()).
			Str("chatbot_id", chatbotID.String()).
			Msg("API key revoke attempted through a different chatbot")
		return domain.NewError(domain.CodeNotFound, op, "api key not found")
	}

	if !key.IsActive {
		return nil
	}

	if err := s.keyRepo.Deactivate(ctx, keyID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewError(domain.CodeNotFound, op, "api key not found")
		}
		log.Error().Err(err).Str("op", op).Str("key_id", keyID.String()).Msg("Failed to revoke api key")
		return domain.Internal(op, err)
	}

	s.metrics.IncAPIKeyEvent("revoked")
	log.Info().Str("chatbot_id", chatbotID.String()).Str("key_id", keyID.String()).Msg("API key revoked")
	return nil
}

// Verify resolves a presented secret to the chatbot and company it is bound to.
// Unknown, malformed and revoked keys are all ErrUnauthenticated.
func (s *APIKeyService) Verify(ctx context.Context, presented string) (*domain.KeyBinding, error) {
	const op = "api_key.verify"
	denied := domain.NewError(domain.CodeUnauthenticated, op, "invalid api key")

	presented = strings.TrimSpace(presented)
	if !apikey.LooksValid(presented) {
		s.metrics.IncAPIKeyEvent("verify_denied")
		return nil, denied
	}

	key, err := s.keyRepo.GetByHash(ctx, apikey.Hash(presented))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.IncAPIKeyEvent("verify_denied")
			return nil, denied
		}
		log.Error().Err(err).Str("op", op).Msg("Failed to look up api key")
		return nil, domain.Internal(op, err)
	}

	if !apikey.Matches(presented, key.KeyHash) || !key.IsActive {
		s.metrics.IncAPIKeyEvent("verify_denied")
		return nil, denied
	}

	s.metrics.IncAPIKeyEvent("verified")
	return &domain.KeyBinding{
		KeyID:     key.ID,
		ChatbotID: key.ChatbotID,
		CompanyID: key.CompanyID,
	}, nil
}
