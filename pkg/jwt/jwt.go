package jwt

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/domain"
)

var (
	ErrInvalidSigningMethod = errors.New("unexpected signing method")
	ErrInvalidToken         = errors.New("invalid token")
	ErrMissingSubject       = errors.New("token has no valid subject")
)

// TokenVerifier checks access tokens minted by the identity backend.
// It never issues tokens; signing belongs to the backend.
type TokenVerifier struct {
	key  interface{}
	opts []jwt.ParserOption
}

// NewHMACVerifier verifies HS256 tokens signed with the backend's shared secret
func NewHMACVerifier(secret []byte, issuer, audience string) (*TokenVerifier, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret is empty")
	}
	return newVerifier(secret, []string{jwt.SigningMethodHS256.Alg()}, issuer, audience), nil
}

// NewRSAVerifier verifies RS256 tokens against the backend's public key
func NewRSAVerifier(publicKeyPEM []byte, issuer, audience string) (*TokenVerifier, error) {
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return newVerifier(publicKey, []string{jwt.SigningMethodRS256.Alg()}, issuer, audience), nil
}

func newVerifier(key interface{}, methods []string, issuer, audience string) *TokenVerifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods(methods),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	return &TokenVerifier{key: key, opts: opts}
}

// Verify parses and validates the token and returns its claims
func (v *TokenVerifier) Verify(tokenString string) (*domain.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC, *jwt.SigningMethodRSA:
			return v.key, nil
		default:
			return nil, ErrInvalidSigningMethod
		}
	}, v.opts...)

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*domain.SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, ErrMissingSubject
	}

	return claims, nil
}
