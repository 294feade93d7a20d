package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/domain"
)

// TokenVerifier is the identity backend's token check. Cryptographic
// verification happens behind it, never in this package.
type TokenVerifier interface {
	Verify(token string) (*domain.SessionClaims, error)
}

// RevocationList tracks tokens that were signed out before expiry
type RevocationList interface {
	IsBlacklisted(ctx context.Context, token string) (bool, error)
	AddUntil(ctx context.Context, token string, expiresAt time.Time) error
}

// SessionService resolves the caller's identity from a session token
type SessionService struct {
	verifier TokenVerifier
	revoked  RevocationList
}

func NewSessionService(verifier TokenVerifier, revoked RevocationList) *SessionService {
	return &SessionService{
		verifier: verifier,
		revoked:  revoked,
	}
}

// Resolve returns the identity behind token or ErrUnauthenticated. A failed
// verification is final for the request and is never retried.
func (s *SessionService) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	claims, err := s.verify(ctx, token)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, domain.NewError(domain.CodeUnauthenticated, "session.resolve", "invalid session")
	}

	return &domain.Identity{
		UserID: userID,
		Email:  claims.Email,
	}, nil
}

// Revoke signs the token out for the rest of its lifetime
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	claims, err := s.verify(ctx, token)
	if err != nil {
		return err
	}
	if s.revoked == nil || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.revoked.AddUntil(ctx, token, claims.ExpiresAt.Time); err != nil {
		log.Error().Err(err).Str("op", "session.revoke").Str("user_id", claims.Subject).Msg("Failed to revoke session")
		return domain.Internal("session.revoke", err)
	}
	return nil
}

func (s *SessionService) verify(ctx context.Context, token string) (*domain.SessionClaims, error) {
	if token == "" {
		return nil, domain.NewError(domain.CodeUnauthenticated, "session.resolve", "missing session")
	}

	claims, err := s.verifier.Verify(token)
	if err != nil {
		log.Debug().Err(err).Msg("Session token rejected")
		return nil, domain.NewError(domain.CodeUnauthenticated, "session.resolve", "invalid or expired session")
	}

	if s.revoked != nil {
		revoked, err := s.revoked.IsBlacklisted(ctx, token)
		if err != nil {
			log.Error().Err(err).Str("op", "session.resolve").Str("user_id", claims.Subject).Msg("Failed to check session revocation")
			return nil, domain.Internal("session.resolve", err)
		}
		if revoked {
			return nil, domain.NewError(domain.CodeUnauthenticated, "session.resolve", "session has been signed out")
		}
	}

	return claims, nil
}
