package models

import (
	"fmt"
	"strings"
	"time"
)

// Role is the access level attached to an account.
type Role string

const (
	RoleUser   Role = "user"
	RoleVendor Role = "vendor"
	RoleAdmin  Role = "admin"
)

// ParseRole validates a role string from a registration request.
// Admin accounts are provisioned out of band, never via the API.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(s)) {
	case RoleUser, "":
		return RoleUser, nil
	case RoleVendor:
		return RoleVendor, nil
	}
	return "", fmt.Errorf("invalid role: %q", s)
}

// User represents an account holder.
type User struct {
	ID              string     `json:"id" db:"id"`
	Name            string     `json:"name" db:"name"`
	Email           string     `json:"email" db:"email"`
	PasswordHash    string     `json:"-" db:"password_hash"`
	Phone           string     `json:"phone" db:"phone"`
	Role            Role       `json:"role" db:"role"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	LastLoginDevice *string    `json:"last_login_device,omitempty" db:"last_login_device"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// RegisterRequest is the account creation submission.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// LoginRequest is the credential submission.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the issued token and the account it belongs to.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
