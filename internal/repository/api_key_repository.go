package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/domain"
)

type APIKeyRepository interface {
	// Create fails with ErrDuplicate when the key hash already exists
	Create(ctx context.Context, key *domain.APIKey) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.APIKey, error)
	// GetByHash joins the owning chatbot so the result carries the tenant binding
	GetByHash(ctx context.Context, keyHash string) (*domain.ResolvedAPIKey, error)

	// ListByChatbotID returns active and revoked keys, newest first
	ListByChatbotID(ctx context.Context, chatbotID uuid.UUID) ([]*domain.APIKey, error)
	CountByChatbotID(ctx context.Context, chatbotID uuid.UUID, active bool) (int, error)

	// Deactivate sets is_active=false. It never reactivates a key and
	// keeps the first revoked_at timestamp.
	Deactivate(ctx context.Context, id uuid.UUID) error
}
