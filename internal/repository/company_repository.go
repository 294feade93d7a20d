package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/domain"
)

type CompanyRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error)

	// CreateWithOwner inserts the company and assigns ownerID to it as owner
	// in one transaction. It fails with ErrAlreadyAssigned when the user
	// already has a company.
	CreateWithOwner(ctx context.Context, company *domain.Company, ownerID uuid.UUID) error
}
