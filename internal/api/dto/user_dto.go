package dto

import (
	"time"

	"github.com/helpdesk-kit/sla-service/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued session.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// CreateUserRequest payload, admin-only.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// CreateClientRequest payload.
type CreateClientRequest struct {
	Name  string `json:"name"`
	CNPJ  string `json:"cnpj"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
	Plan  string `json:"plan"`
}

// ClientResponse is the public view of a client.
type ClientResponse struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	CNPJ  string      `json:"cnpj"`
	Email string      `json:"email"`
	Phone string      `json:"phone"`
	Notes string      `json:"notes"`
	Plan  domain.Plan `json:"plan"`
}
