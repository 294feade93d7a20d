package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/domain"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/repository"
)

// TenantService maps identities to their company and runs onboarding
type TenantService struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
}

func NewTenantService(userRepo repository.UserRepository, companyRepo repository.CompanyRepository) *TenantService {
	return &TenantService{
		userRepo:    userRepo,
		companyRepo: companyRepo,
	}
}

// Resolve returns the caller's company id. A user without a company, or
// without a profile row yet, gets ErrNoTenant rather than an auth failure.
func (s *TenantService) Resolve(ctx context.Context, identity *domain.Identity) (uuid.UUID, error) {
	if identity == nil {
		return uuid.Nil, domain.NewError(domain.CodeUnauthenticated, "tenant.resolve", "missing session")
	}

	user, err := s.userRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return uuid.Nil, domain.NewError(domain.CodeNoTenant, "tenant.resolve", "user is not associated with a company")
		}
		log.Error().Err(err).Str("op", "tenant.resolve").Str("user_id", identity.UserID.String()).Msg("Failed to load user")
		return uuid.Nil, domain.Internal("tenant.resolve", err)
	}

	if !user.HasCompany() {
		return uuid.Nil, domain.NewError(domain.CodeNoTenant, "tenant.resolve", "user is not associated with a company")
	}

	return *user.CompanyID, nil
}

// CreateCompany creates the caller's company and makes them its owner.
// company_id is assigned exactly once; a second attempt is a conflict.
func (s *TenantService) CreateCompany(ctx context.Context, identity *domain.Identity, name string) (*domain.Company, error) {
	const op = "tenant.create_company"

	if identity == nil {
		return nil, domain.NewError(domain.CodeUnauthenticated, op, "missing session")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewError(domain.CodeInvalidInput, op, "name is required")
	}

	user, err := s.userRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewError(domain.CodeNotFound, op, "user profile not found")
		}
		log.Error().Err(err).Str("op", op).Str("user_id", identity.UserID.String()).Msg("Failed to load user")
		return nil, domain.Internal(op, err)
	}

	if user.HasCompany() {
		return nil, domain.NewError(domain.CodeConflict, op, "user is already associated with a company")
	}

	company := &domain.Company{
		ID:   uuid.New(),
		Name: name,
	}

	if err := s.companyRepo.CreateWithOwner(ctx, company, user.ID); err != nil {
		if errors.Is(err, repository.ErrAlreadyAssigned) {
			return nil, domain.NewError(domain.CodeConflict, op, "user is already associated with a company")
		}
		log.Error().Err(err).Str("op", op).Str("user_id", user.ID.String()).Msg("Failed to create company")
		return nil, domain.Internal(op, err)
	}

	log.Info().Str("company_id", company.ID.String()).Str("owner_id", user.ID.String()).Msg("Company created")
	return company, nil
}

// GetCompany returns the tenant's company row
func (s *TenantService) GetCompany(ctx context.Context, companyID uuid.UUID) (*domain.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewError(domain.CodeNotFound, "tenant.get_company", "company not found")
		}
		log.Error().Err(err).Str("op", "tenant.get_company").Str("company_id", companyID.String()).Msg("Failed to load company")
		return nil, domain.Internal("tenant.get_company", err)
	}
	return company, nil
}
