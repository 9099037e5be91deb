package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. PasswordHash is never serialized.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Role constants. Farmers see their own records, admins see everything.
const (
	RoleFarmer = "farmer"
	RoleAdmin  = "admin"
)

// IsValidRole checks if the given role is valid.
func IsValidRole(role string) bool {
	return role == RoleFarmer || role == RoleAdmin
}
