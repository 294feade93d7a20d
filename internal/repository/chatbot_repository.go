package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/domain"
)

type ChatbotRepository interface {
	Create(ctx context.Context, chatbot *domain.Chatbot) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Chatbot, error)
	ListByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*domain.Chatbot, error)
	CountByCompanyID(ctx context.Context, companyID uuid.UUID) (int, error)
}
