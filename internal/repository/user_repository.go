package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
