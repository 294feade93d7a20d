package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/domain"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/repository"
)

type chatbotRepository struct {
	db *sqlx.DB
}

// NewChatbotRepository creates a new PostgreSQL chatbot repository
func NewChatbotRepository(db *sqlx.DB) repository.ChatbotRepository {
	return &chatbotRepository{db: db}
}

func (r *chatbotRepository) Create(ctx context.Context, chatbot *domain.Chatbot) error {
	now := time.Now().UTC()
	chatbot.CreatedAt = now
	chatbot.UpdatedAt = now

	query := `
		INSERT INTO chatbots (id, company_id, name, description, type, is_active, created_at, updated_at)
		VALUES (:id, :company_id, :name, :description, :type, :is_active, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, chatbot); err != nil {
		return fmt.Errorf("failed to create chatbot: %w", err)
	}

	return nil
}

// GetByID returns the chatbot regardless of is_active; callers decide visibility
func (r *chatbotRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Chatbot, error) {
	query := `
		SELECT id, company_id, name, description, type, is_active, created_at, updated_at
		FROM chatbots
		WHERE id = $1`

	var chatbot domain.Chatbot
	err := r.db.GetContext(ctx, &chatbot, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get chatbot by id: %w", err)
	}

	return &chatbot, nil
}

func (r *chatbotRepository) ListByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*domain.Chatbot, error) {
	query := `
		SELECT id, company_id, name, description, type, is_active, created_at, updated_at
		FROM chatbots
		WHERE company_id = $1
		ORDER BY created_at DESC`

	chatbots := []*domain.Chatbot{}
	if err := r.db.SelectContext(ctx, &chatbots, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to list chatbots: %w", err)
	}

	return chatbots, nil
}

func (r *chatbotRepository) CountByCompanyID(ctx context.Context, companyID uuid.UUID) (int, error) {
	var total int
	query := `SELECT COUNT(*) FROM chatbots WHERE company_id = $1`
	if err := r.db.GetContext(ctx, &total, query, companyID); err != nil {
		return 0, fmt.Errorf("failed to count chatbots: %w", err)
	}
	return total, nil
}
