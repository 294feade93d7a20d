package domain

import (
	"time"

	"github.com/google/uuid"
)

// APIKey is a long-lived credential bound to exactly one chatbot.
// The secret itself is never stored; KeyHash is its SHA-256 digest.
type APIKey struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	ChatbotID uuid.UUID  `json:"chatbot_id" db:"chatbot_id"`
	Name      *string    `json:"name,omitempty" db:"name"`
	KeyHash   string     `json:"-" db:"key_hash"`
	KeyPrefix string     `json:"key_prefix" db:"key_prefix"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty" db:"revoked_at"`
}

// Status is ACTIVE until revoked; REVOKED is terminal.
func (k *APIKey) Status() string {
	if k.IsActive {
		return "active"
	}
	return "revoked"
}

// APIKeyListItem is the redacted view returned by listing operations
type APIKeyListItem struct {
	ID        uuid.UUID  `json:"id"`
	ChatbotID uuid.UUID  `json:"chatbot_id"`
	Name      *string    `json:"name,omitempty"`
	MaskedKey string     `json:"masked_key"`
	IsActive  bool       `json:"is_active"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// IssuedAPIKey carries the plaintext secret. It exists only in the Issue response.
type IssuedAPIKey struct {
	ID        uuid.UUID `json:"id"`
	ChatbotID uuid.UUID `json:"chatbot_id"`
	Name      *string   `json:"name,omitempty"`
	APIKey    string    `json:"api_key"`
	KeyPrefix string    `json:"key_prefix"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// KeyBinding is what a verified key grants: one chatbot of one company.
type KeyBinding struct {
	KeyID     uuid.UUID `json:"key_id"`
	ChatbotID uuid.UUID `json:"chatbot_id"`
	CompanyID uuid.UUID `json:"company_id"`
}

// ResolvedAPIKey is an API key joined with its chatbot's owning company
type ResolvedAPIKey struct {
	APIKey
	CompanyID uuid.UUID `json:"company_id" db:"company_id"`
}
