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

type companyRepository struct {
	db *sqlx.DB
}

// NewCompanyRepository creates a new PostgreSQL company repository
func NewCompanyRepository(db *sqlx.DB) repository.CompanyRepository {
	return &companyRepository{db: db}
}

// GetByID retrieves a company by its ID
func (r *companyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM companies
		WHERE id = $1`

	var company domain.Company
	err := r.db.GetContext(ctx, &company, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get company by id: %w", err)
	}

	return &company, nil
}

// CreateWithOwner inserts the company and links the owner in one transaction.
// The user update only matches rows whose company_id is still NULL.
func (r *companyRepository) CreateWithOwner(ctx context.Context, company *domain.Company, ownerID uuid.UUID) error {
	now := time.Now().UTC()
	company.CreatedAt = now
	company.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insert := `
		INSERT INTO companies (id, name, created_at, updated_at)
		VALUES (:id, :name, :created_at, :updated_at)`

	if _, err := tx.NamedExecContext(ctx, insert, company); err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}

	assign := `
		UPDATE users
		SET company_id = $1, role = $2, updated_at = $3
		WHERE id = $4 AND company_id IS NULL`

	result, err := tx.ExecContext(ctx, assign, company.ID, domain.UserRoleOwner, now, ownerID)
	if err != nil {
		return fmt.Errorf("failed to assign company owner: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return repository.ErrAlreadyAssigned
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit company creation: %w", err)
	}

	return nil
}
