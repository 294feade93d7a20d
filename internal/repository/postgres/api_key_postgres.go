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

type apiKeyRepository struct {
	db *sqlx.DB
}

// NewAPIKeyRepository creates a new PostgreSQL API key repository
func NewAPIKeyRepository(db *sqlx.DB) repository.APIKeyRepository {
	return &apiKeyRepository{db: db}
}

// Create inserts a new key. key_hash carries a unique index.
func (r *apiKeyRepository) Create(ctx context.Context, key *domain.APIKey) error {
	if key.CreatedAt.IsZero() {
		key.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO api_keys (id, chatbot_id, name, key_hash, key_prefix, is_active, created_at)
		VALUES (:id, :chatbot_id, :name, :key_hash, :key_prefix, :is_active, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, key); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create api key: %w", err)
	}

	return nil
}

func (r *apiKeyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.APIKey, error) {
	query := `
		SELECT id, chatbot_id, name, key_hash, key_prefix, is_active, created_at, revoked_at
		FROM api_keys
		WHERE id = $1`

	var key domain.APIKey
	err := r.db.GetContext(ctx, &key, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get api key by id: %w", err)
	}

	return &key, nil
}

func (r *apiKeyRepository) GetByHash(ctx context.Context, keyHash string) (*domain.ResolvedAPIKey, error) {
	query := `
		SELECT k.id, k.chatbot_id, k.name, k.key_hash, k.key_prefix, k.is_active,
			   k.created_at, k.revoked_at, c.company_id
		FROM api_keys k
		JOIN chatbots c ON c.id = k.chatbot_id
		WHERE k.key_hash = $1`

	var key domain.ResolvedAPIKey
	err := r.db.GetContext(ctx, &key, query, keyHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get api key by hash: %w", err)
	}

	return &key, nil
}

func (r *apiKeyRepository) ListByChatbotID(ctx context.Context, chatbotID uuid.UUID) ([]*domain.APIKey, error) {
	query := `
		SELECT id, chatbot_id, name, key_hash, key_prefix, is_active, created_at, revoked_at
		FROM api_keys
		WHERE chatbot_id = $1
		ORDER BY created_at DESC`

	keys := []*domain.APIKey{}
	if err := r.db.SelectContext(ctx, &keys, query, chatbotID); err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}

	return keys, nil
}

func (r *apiKeyRepository) CountByChatbotID(ctx context.Context, chatbotID uuid.UUID, active bool) (int, error) {
	var total int
	query := `SELECT COUNT(*) FROM api_keys WHERE chatbot_id = $1 AND is_active = $2`
	if err := r.db.GetContext(ctx, &total, query, chatbotID, active); err != nil {
		return 0, fmt.Errorf("failed to count api keys: %w", err)
	}
	return total, nil
}

// Deactivate is monotonic: there is no statement that sets is_active back to true.
func (r *apiKeyRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE api_keys
		SET is_active = FALSE, revoked_at = COALESCE(revoked_at, $1)
		WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to revoke api key: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}
