package domain

import (
	"time"

	"github.com/google/uuid"
)

// Company is the tenant: every chatbot, user and API key is partitioned by it.
type Company struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
