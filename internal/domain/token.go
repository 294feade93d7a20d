package domain

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is the authenticated principal produced by the identity backend
type Identity struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// SessionClaims are the claims carried by identity-backend access tokens.
// Subject holds the user id.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}
