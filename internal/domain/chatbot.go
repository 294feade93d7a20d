package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatbotType decides how the unified chat endpoint authenticates callers
type ChatbotType string

const (
	ChatbotTypePublic   ChatbotType = "public"
	ChatbotTypeInternal ChatbotType = "internal"
)

func (t ChatbotType) Valid() bool {
	return t == ChatbotTypePublic || t == ChatbotTypeInternal
}

type Chatbot struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	CompanyID   uuid.UUID   `json:"company_id" db:"company_id"`
	Name        string      `json:"name" db:"name"`
	Description *string     `json:"description,omitempty" db:"description"`
	Type        ChatbotType `json:"type" db:"type"`
	IsActive    bool        `json:"is_active" db:"is_active"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// OwnedBy reports whether the chatbot belongs to the given company.
func (c *Chatbot) OwnedBy(companyID uuid.UUID) bool {
	return c != nil && companyID != uuid.Nil && c.CompanyID == companyID
}

// PublicChatbot is the subset exposed on unauthenticated metadata reads
type PublicChatbot struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description *string     `json:"description,omitempty"`
	Type        ChatbotType `json:"type"`
}

func (c *Chatbot) Public() PublicChatbot {
	return PublicChatbot{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Type:        c.Type,
	}
}

// ChatbotSummary aggregates counts shown on the chatbot dashboard
type ChatbotSummary struct {
	ChatbotID      uuid.UUID `json:"chatbot_id"`
	ActiveAPIKeys  int       `json:"active_api_keys"`
	RevokedAPIKeys int       `json:"revoked_api_keys"`
	TenantChatbots int       `json:"tenant_chatbots"`
}

// ChatMessage is the inbound message handed to the response pipeline
type ChatMessage struct {
	ChatbotID  uuid.UUID  `json:"chatbot_id"`
	CompanyID  uuid.UUID  `json:"company_id"`
	SessionID  uuid.UUID  `json:"session_id"`
	Message    string     `json:"message"`
	AuthMethod string     `json:"auth_method"`
	APIKeyID   *uuid.UUID `json:"api_key_id,omitempty"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	ReceivedAt time.Time  `json:"received_at"`
}

// ChatReceipt acknowledges an accepted message
type ChatReceipt struct {
	MessageID string    `json:"message_id"`
	ChatbotID uuid.UUID `json:"chatbot_id"`
	SessionID uuid.UUID `json:"session_id"`
}
