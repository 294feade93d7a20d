package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleOwner  UserRole = "owner"
	UserRoleMember UserRole = "member"
)

// User mirrors the identity backend's principal inside the platform.
// CompanyID and Role stay nil until onboarding creates the company.
type User struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Email     string     `json:"email" db:"email"`
	CompanyID *uuid.UUID `json:"company_id,omitempty" db:"company_id"`
	Role      *UserRole  `json:"role,omitempty" db:"role"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// HasCompany reports whether onboarding has completed for the user.
func (u *User) HasCompany() bool {
	return u != nil && u.CompanyID != nil && *u.CompanyID != uuid.Nil
}
